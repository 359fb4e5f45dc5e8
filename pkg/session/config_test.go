package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/transfer"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GPLOT_EXECUTABLE", "")
	t.Setenv("GPLOT_PERSIST", "")
	t.Setenv("GPLOT_TIMEOUT", "")
	t.Setenv("GPLOT_FORMAT", "")
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, "gplot", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Executable != "gnuplot" {
		t.Errorf("Executable = %q, want gnuplot", cfg.Executable)
	}
	if cfg.CheckpointTimeout != 5*time.Second {
		t.Errorf("CheckpointTimeout = %v, want 5s", cfg.CheckpointTimeout)
	}
	if cfg.DefaultFormat != transfer.FormatBinary {
		t.Errorf("DefaultFormat = %v, want binary", cfg.DefaultFormat)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolateConfig(t)
	writeConfig(t, dir, `
executable = "/opt/gnuplot/bin/gnuplot"
persist_window = true
checkpoint_timeout_seconds = 2.5
format = "text"
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Executable != "/opt/gnuplot/bin/gnuplot" {
		t.Errorf("Executable = %q", cfg.Executable)
	}
	if !cfg.PersistWindow {
		t.Error("PersistWindow = false, want true")
	}
	if cfg.CheckpointTimeout != 2500*time.Millisecond {
		t.Errorf("CheckpointTimeout = %v, want 2.5s", cfg.CheckpointTimeout)
	}
	if cfg.DefaultFormat != transfer.FormatText {
		t.Errorf("DefaultFormat = %v, want text", cfg.DefaultFormat)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := isolateConfig(t)
	writeConfig(t, dir, `executable = "from-file"`)
	t.Setenv("GPLOT_EXECUTABLE", "from-env")
	t.Setenv("GPLOT_TIMEOUT", "250ms")
	t.Setenv("GPLOT_PERSIST", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Executable != "from-env" {
		t.Errorf("Executable = %q, want env value", cfg.Executable)
	}
	if cfg.CheckpointTimeout != 250*time.Millisecond {
		t.Errorf("CheckpointTimeout = %v, want 250ms", cfg.CheckpointTimeout)
	}
	if !cfg.PersistWindow {
		t.Error("PersistWindow = false, want true")
	}
}

func TestLoadConfigFormatEnv(t *testing.T) {
	dir := isolateConfig(t)
	writeConfig(t, dir, `format = "binary"`)
	t.Setenv("GPLOT_FORMAT", "text")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultFormat != transfer.FormatText {
		t.Errorf("DefaultFormat = %v, want text from env", cfg.DefaultFormat)
	}

	t.Setenv("GPLOT_FORMAT", "csv")
	if _, err := LoadConfig(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad GPLOT_FORMAT err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := isolateConfig(t)
	writeConfig(t, dir, `format = "csv"`)
	if _, err := LoadConfig(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad format err = %v, want INVALID_CONFIG", err)
	}

	writeConfig(t, dir, `format = "binary"`)
	t.Setenv("GPLOT_TIMEOUT", "soon")
	if _, err := LoadConfig(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad timeout err = %v, want INVALID_CONFIG", err)
	}
}
