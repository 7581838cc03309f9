package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"SectorRRG/internal/calculator"
	"SectorRRG/internal/collector"
	"SectorRRG/internal/model"
	"SectorRRG/internal/rotation"
)

// Supported price providers.
const (
	ProviderYahoo = "yahoo"
	ProviderEODHD = "eodhd"
	ProviderCSV   = "csv"
	ProviderMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Benchmark   model.Instrument   `yaml:"benchmark" toml:"benchmark"`
	Instruments []model.Instrument `yaml:"instruments" toml:"instruments"`
	DataSource  struct {
		Provider    string `yaml:"provider" toml:"provider"`
		BaseURL     string `yaml:"base_url" toml:"base_url"`
		APIKey      string `yaml:"api_key" toml:"api_key"`
		CSVDir      string `yaml:"csv_dir" toml:"csv_dir"`
		RateLimit   int    `yaml:"rate_limit" toml:"rate_limit"` // requests per second, EODHD only
		Concurrency int    `yaml:"concurrency" toml:"concurrency"`
	} `yaml:"data_source" toml:"data_source"`
	RRG struct {
		Lookback    string `yaml:"lookback" toml:"lookback"`
		LongWindow  int    `yaml:"long_window" toml:"long_window"`
		ShortWindow int    `yaml:"short_window" toml:"short_window"`
	} `yaml:"rrg" toml:"rrg"`
	Schedule struct {
		DailyCron  string `yaml:"daily_cron" toml:"daily_cron"`
		RunOnStart bool   `yaml:"run_on_start" toml:"run_on_start"`
	} `yaml:"schedule" toml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token" toml:"bot_token"`
		ChatID   string `yaml:"chat_id" toml:"chat_id"`
	} `yaml:"telegram" toml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
	} `yaml:"database" toml:"database"`
	Output struct {
		PDFPath string `yaml:"pdf_path" toml:"pdf_path"`
	} `yaml:"output" toml:"output"`
	Logging struct {
		Level string `yaml:"level" toml:"level"`
	} `yaml:"logging" toml:"logging"`
	Proxy string `yaml:"proxy" toml:"proxy"`
}

// Load reads config from a YAML or TOML file (chosen by extension), then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"RRG_PROVIDER", &c.DataSource.Provider},
		{"EODHD_API_KEY", &c.DataSource.APIKey},
		{"RRG_CSV_DIR", &c.DataSource.CSVDir},
		{"HTTPS_PROXY", &c.Proxy},
		{"RRG_LOOKBACK", &c.RRG.Lookback},
		{"CRON_DAILY", &c.Schedule.DailyCron},
		{"SQLITE_PATH", &c.Database.SQLitePath},
		{"RRG_PDF_PATH", &c.Output.PDFPath},
		{"LOG_LEVEL", &c.Logging.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Benchmark.Symbol == "" {
		c.Benchmark = rotation.DefaultBenchmark
	}
	if c.Benchmark.Label == "" {
		c.Benchmark.Label = c.Benchmark.Symbol
	}
	if len(c.Instruments) == 0 {
		c.Instruments = rotation.DefaultSectors
	}
	c.Instruments = rotation.WithDefaults(c.Instruments)

	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.Concurrency == 0 {
		c.DataSource.Concurrency = collector.DefaultConcurrency
	}
	if c.RRG.Lookback == "" {
		c.RRG.Lookback = string(model.DefaultLookback)
	}
	if c.RRG.LongWindow == 0 {
		c.RRG.LongWindow = calculator.DefaultLongWindow
	}
	if c.RRG.ShortWindow == 0 {
		c.RRG.ShortWindow = calculator.DefaultShortWindow
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/sector_rrg.db"
	}
	if c.Output.PDFPath == "" {
		c.Output.PDFPath = "data/rrg.pdf"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Lookback returns the parsed trail selector.
func (c *Config) Lookback() (model.Lookback, error) {
	return model.ParseLookback(c.RRG.Lookback)
}

// Calculator returns the momentum window configuration.
func (c *Config) Calculator() calculator.Config {
	return calculator.Config{LongWindow: c.RRG.LongWindow, ShortWindow: c.RRG.ShortWindow}
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	if c.Benchmark.Symbol == "" {
		errs = append(errs, errors.New("benchmark.symbol is required"))
	}
	if len(c.Instruments) == 0 {
		errs = append(errs, errors.New("at least one instrument is required"))
	}
	seen := map[string]bool{c.Benchmark.Symbol: true}
	for i, inst := range c.Instruments {
		switch {
		case inst.Symbol == "":
			errs = append(errs, fmt.Errorf("instruments[%d].symbol is required", i))
		case seen[inst.Symbol]:
			errs = append(errs, fmt.Errorf("instruments[%d]: duplicate symbol %s", i, inst.Symbol))
		}
		seen[inst.Symbol] = true
	}

	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderEODHD:
		if c.DataSource.APIKey == "" {
			errs = append(errs, errors.New("data_source.api_key is required for eodhd"))
		}
	case ProviderCSV:
		if c.DataSource.CSVDir == "" {
			errs = append(errs, errors.New("data_source.csv_dir is required for csv"))
		}
	default:
		errs = append(errs, fmt.Errorf("data_source.provider %q is not one of yahoo, eodhd, csv, mock", c.DataSource.Provider))
	}
	if c.DataSource.Concurrency < 0 {
		errs = append(errs, errors.New("data_source.concurrency must not be negative"))
	}
	if c.DataSource.RateLimit < 0 {
		errs = append(errs, errors.New("data_source.rate_limit must not be negative"))
	}

	if _, err := c.Lookback(); err != nil {
		errs = append(errs, fmt.Errorf("rrg.lookback: %w", err))
	}
	if c.RRG.LongWindow <= 0 || c.RRG.ShortWindow <= 0 {
		errs = append(errs, errors.New("rrg windows must be positive"))
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Schedule.DailyCron); err != nil {
		errs = append(errs, fmt.Errorf("schedule.daily_cron: %w", err))
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		errs = append(errs, errors.New("telegram.bot_token and telegram.chat_id must be set together"))
	}
	return errors.Join(errs...)
}
