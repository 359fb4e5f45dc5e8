// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about protocol traffic and replay-cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetProtocolHooks(&myProtocolHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Protocol().OnCommand(ctx, cmd)
//	// ... wait for the subprocess ...
//	observability.Protocol().OnCheckpoint(ctx, marker, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Protocol Hooks
// =============================================================================

// ProtocolHooks receives events from the subprocess command stream.
type ProtocolHooks interface {
	// OnCommand records a command line written to the subprocess.
	OnCommand(ctx context.Context, cmd string)

	// OnTransfer records one chunk's data payload: its wire format and
	// the number of points streamed.
	OnTransfer(ctx context.Context, format string, points int, err error)

	// OnCheckpoint records a completed synchronization round-trip.
	OnCheckpoint(ctx context.Context, marker string, duration time.Duration, err error)

	// OnWarning records a diagnostic warning line from the subprocess.
	OnWarning(ctx context.Context, line string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from replay-cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopProtocolHooks is a no-op implementation of ProtocolHooks.
type NoopProtocolHooks struct{}

func (NoopProtocolHooks) OnCommand(context.Context, string)                          {}
func (NoopProtocolHooks) OnTransfer(context.Context, string, int, error)             {}
func (NoopProtocolHooks) OnCheckpoint(context.Context, string, time.Duration, error) {}
func (NoopProtocolHooks) OnWarning(context.Context, string)                          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	protocolHooks ProtocolHooks = NoopProtocolHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetProtocolHooks registers custom protocol hooks.
// This should be called once at application startup before any sessions start.
func SetProtocolHooks(h ProtocolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		protocolHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Protocol returns the registered protocol hooks.
func Protocol() ProtocolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return protocolHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	protocolHooks = NoopProtocolHooks{}
	cacheHooks = NoopCacheHooks{}
}
