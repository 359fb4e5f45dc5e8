// Package gplot is the convenience surface of the driver: package-level
// plotting functions backed by one lazily started shared session.
// Programs that need several renderers or custom configuration use
// pkg/session directly.
package gplot

import (
	"context"
	"sync"

	"github.com/plotforge/gplot/pkg/session"
	"github.com/plotforge/gplot/pkg/styles"
)

var (
	defaultOnce sync.Once
	defaultSess *session.Session
	defaultErr  error
)

// Default returns the shared session, creating it from the ambient
// configuration on first use.
func Default() (*session.Session, error) {
	defaultOnce.Do(func() {
		cfg, err := session.LoadConfig()
		if err != nil {
			defaultErr = err
			return
		}
		defaultSess = session.New(cfg)
	})
	return defaultSess, defaultErr
}

// Plot draws a 2-D plot on the shared session.
func Plot(ctx context.Context, args ...any) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Plot(ctx, args...)
}

// Splot draws a 3-D plot on the shared session.
func Splot(ctx context.Context, args ...any) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Splot(ctx, args...)
}

// Replot repeats the shared session's previous draw, appending any
// extra arguments.
func Replot(ctx context.Context, extra ...any) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Replot(ctx, extra...)
}

// Set applies plot options to the shared session.
func Set(opts map[string]any) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.SetOptions(opts)
}

// Close shuts the shared session down.
func Close() error {
	if defaultSess == nil {
		return nil
	}
	return defaultSess.Close()
}

// Styles lists the supported drawing styles.
func Styles() []*styles.Style {
	return styles.All()
}
