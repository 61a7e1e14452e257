// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about ranking sessions and session storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The prom subpackage provides a Prometheus-backed implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRankHooks(&myRankHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	levels := graph.Ranking()
//	observability.Rank().OnRanking(ctx, id, len(levels), cached, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Rank Hooks
// =============================================================================

// RankHooks receives events from ranking sessions.
type RankHooks interface {
	// OnComparison records a judgement added to a session.
	OnComparison(ctx context.Context, sessionID string, err error)

	// OnSkip records a comparison that was asked but left undecided.
	OnSkip(ctx context.Context, sessionID string, err error)

	// OnQuery records a next-query request; found is false once exhausted.
	OnQuery(ctx context.Context, sessionID string, found bool)

	// OnRanking records a ranking request. cached reports whether the
	// engine served its cached layering.
	OnRanking(ctx context.Context, sessionID string, levels int, cached bool, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from session store operations.
type StoreHooks interface {
	// OnLoad records a session read; found is false on a miss.
	OnLoad(ctx context.Context, backend string, found bool, duration time.Duration)

	// OnSave records a session write.
	OnSave(ctx context.Context, backend string, size int, duration time.Duration)

	// OnError records a failed store operation.
	OnError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRankHooks is a no-op implementation of RankHooks.
type NoopRankHooks struct{}

func (NoopRankHooks) OnComparison(context.Context, string, error)                  {}
func (NoopRankHooks) OnSkip(context.Context, string, error)                        {}
func (NoopRankHooks) OnQuery(context.Context, string, bool)                        {}
func (NoopRankHooks) OnRanking(context.Context, string, int, bool, time.Duration) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, bool, time.Duration) {}
func (NoopStoreHooks) OnSave(context.Context, string, int, time.Duration)  {}
func (NoopStoreHooks) OnError(context.Context, string, string, error)      {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	rankHooks  RankHooks  = NoopRankHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetRankHooks registers custom ranking hooks.
// This should be called once at application startup before any session is opened.
func SetRankHooks(h RankHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rankHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store is used.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Rank returns the registered ranking hooks.
func Rank() RankHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rankHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	rankHooks = NoopRankHooks{}
	storeHooks = NoopStoreHooks{}
}
