// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about group, row, and transform execution and
// about the lifecycle of temporary artifacts.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnTransformStart(ctx, "gzip", path)
//	// ... run transform ...
//	observability.Pipeline().OnTransformComplete(ctx, "gzip", path, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the size report pipeline.
//
// Within one group, events are delivered from a single goroutine in execution
// order. Groups run concurrently, so implementations shared across groups
// must be safe for concurrent use.
type PipelineHooks interface {
	// Group events
	OnGroupStart(ctx context.Context, cwd string, files int)
	OnGroupComplete(ctx context.Context, cwd string, rows int, duration time.Duration, err error)

	// Row events
	OnRowStart(ctx context.Context, path string)
	OnRowComplete(ctx context.Context, path string, duration time.Duration, err error)

	// Transform events
	OnTransformStart(ctx context.Context, column, path string)
	OnTransformComplete(ctx context.Context, column, path string, duration time.Duration, err error)
}

// =============================================================================
// Artifact Hooks
// =============================================================================

// ArtifactHooks receives events about scoped temporary artifacts.
type ArtifactHooks interface {
	// OnArtifactCreate records creation of a temporary file.
	OnArtifactCreate(ctx context.Context, path string)

	// OnArtifactRemove records removal of a temporary file.
	OnArtifactRemove(ctx context.Context, path string, size int64, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGroupStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnGroupComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRowStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnRowComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnTransformStart(context.Context, string, string)            {}
func (NoopPipelineHooks) OnTransformComplete(context.Context, string, string, time.Duration, error) {
}

// NoopArtifactHooks is a no-op implementation of ArtifactHooks.
type NoopArtifactHooks struct{}

func (NoopArtifactHooks) OnArtifactCreate(context.Context, string)               {}
func (NoopArtifactHooks) OnArtifactRemove(context.Context, string, int64, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	artifactHooks ArtifactHooks = NoopArtifactHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any report runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetArtifactHooks registers custom artifact hooks.
// This should be called once at application startup before any report runs.
func SetArtifactHooks(h ArtifactHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		artifactHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Artifact returns the registered artifact hooks.
func Artifact() ArtifactHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return artifactHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	artifactHooks = NoopArtifactHooks{}
}
