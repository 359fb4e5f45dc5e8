package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/plotforge/gplot/pkg/observability"
)

// ErrNoLastDraw is returned when no previous draw has been recorded.
var ErrNoLastDraw = errors.New("no previous draw recorded")

// Draw is the serializable record of one draw call, enough to rebuild
// the argument list later.
type Draw struct {
	// ThreeD records whether the draw used the 3-D grammar.
	ThreeD bool `json:"three_d"`

	// Options holds the plot options the draw was issued under.
	Options map[string]any `json:"options,omitempty"`

	// Curves holds the per-curve option sets and data columns in
	// argument order.
	Curves []Curve `json:"curves"`
}

// Curve is one curve of a recorded draw.
type Curve struct {
	Options map[string]any `json:"options,omitempty"`
	Columns [][]float64    `json:"columns"`
}

// Store persists the most recent draw so it can be replayed.
type Store struct {
	c Cache
}

// NewStore wraps a cache backend in a replay store.
func NewStore(c Cache) *Store {
	if c == nil {
		c = NewNullCache()
	}
	return &Store{c: c}
}

const drawKeyType = "draw"

// SaveLast records d as the latest draw in the given namespace.
func (s *Store) SaveLast(ctx context.Context, namespace string, d *Draw) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := s.c.Set(ctx, drawKey(namespace), data, 0); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, drawKeyType, len(data))
	return nil
}

// LoadLast returns the latest recorded draw in the given namespace, or
// ErrNoLastDraw.
func (s *Store) LoadLast(ctx context.Context, namespace string) (*Draw, error) {
	data, hit, err := s.c.Get(ctx, drawKey(namespace))
	if err != nil {
		return nil, err
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, drawKeyType)
		return nil, ErrNoLastDraw
	}
	observability.Cache().OnCacheHit(ctx, drawKeyType)
	var d Draw
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Clear drops the recorded draw in the given namespace.
func (s *Store) Clear(ctx context.Context, namespace string) error {
	return s.c.Delete(ctx, drawKey(namespace))
}

func drawKey(namespace string) string {
	return hashKey(drawKeyType, namespace)
}
