package logging

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

// New builds a console logger at the given level ("debug", "info", "warn", "error").
func New(level string) arbor.ILogger {
	if level == "" {
		level = "info"
	}
	logger := arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "2006-01-02 15:04:05",
		OutputType:       models.OutputFormatLogfmt,
		DisableTimestamp: false,
	})
	return logger.WithLevelFromString(level)
}
