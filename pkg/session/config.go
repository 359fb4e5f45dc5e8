package session

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"

	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/transfer"
)

// Config controls a session's subprocess and protocol behavior. The
// zero value works: it runs "gnuplot" from PATH with a 5 second
// checkpoint timeout and binary transfer.
type Config struct {
	// Executable is the gnuplot binary to spawn.
	Executable string

	// PersistWindow keeps interactive plot windows open after the
	// session closes (the -persist flag).
	PersistWindow bool

	// CheckpointTimeout bounds each diagnostic read while waiting for
	// a checkpoint sentinel. Elapsing marks the session Stuck.
	CheckpointTimeout time.Duration

	// DefaultFormat is the preferred transfer format for ordinary
	// chunks; individual chunks may override it.
	DefaultFormat transfer.Format

	// Logger receives debug/warn output. Nil disables logging.
	Logger *charmlog.Logger
}

const (
	defaultExecutable = "gnuplot"
	defaultTimeout    = 5 * time.Second
)

// fileConfig is the on-disk shape of ~/.config/gplot/config.toml.
type fileConfig struct {
	Executable     string  `toml:"executable"`
	PersistWindow  bool    `toml:"persist_window"`
	TimeoutSeconds float64 `toml:"checkpoint_timeout_seconds"`
	Format         string  `toml:"format"`
}

// LoadConfig reads the process-wide configuration once: the config
// file if present, then GPLOT_* environment overrides. Construction is
// the only point that consults either; sessions never re-read them.
func LoadConfig() (Config, error) {
	cfg := Config{}

	if path := configPath(); path != "" {
		var fc fileConfig
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &fc); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading %s", path)
			}
			cfg.Executable = fc.Executable
			cfg.PersistWindow = fc.PersistWindow
			if fc.TimeoutSeconds > 0 {
				cfg.CheckpointTimeout = time.Duration(fc.TimeoutSeconds * float64(time.Second))
			}
			switch fc.Format {
			case "", "binary":
			case "text":
				cfg.DefaultFormat = transfer.FormatText
			default:
				return Config{}, errors.New(errors.ErrCodeInvalidConfig,
					"format must be binary or text, got %q", fc.Format)
			}
		}
	}

	if v := os.Getenv("GPLOT_EXECUTABLE"); v != "" {
		cfg.Executable = v
	}
	if v := os.Getenv("GPLOT_PERSIST"); v != "" {
		cfg.PersistWindow = v == "1" || v == "true"
	}
	if v := os.Getenv("GPLOT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "GPLOT_TIMEOUT")
		}
		cfg.CheckpointTimeout = d
	}
	if v := os.Getenv("GPLOT_FORMAT"); v != "" {
		switch v {
		case "binary":
			cfg.DefaultFormat = transfer.FormatBinary
		case "text":
			cfg.DefaultFormat = transfer.FormatText
		default:
			return Config{}, errors.New(errors.ErrCodeInvalidConfig,
				"GPLOT_FORMAT must be binary or text, got %q", v)
		}
	}
	return cfg, nil
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gplot", "config.toml")
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Executable == "" {
		c.Executable = defaultExecutable
	}
	if c.CheckpointTimeout <= 0 {
		c.CheckpointTimeout = defaultTimeout
	}
	return c
}
