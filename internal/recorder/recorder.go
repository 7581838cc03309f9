package recorder

import (
	"time"

	"SectorRRG/internal/model"
)

// RunSnapshot holds one completed rotation run.
type RunSnapshot struct {
	RunID     string
	Provider  string
	Graph     *model.RotationGraph
	Duration  time.Duration
	Delivered bool
}

// Recorder persists the history of rotation runs for later analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
