// Package observability lets a host process watch the pipeline without
// the library taking a dependency on any metrics or tracing framework.
//
// The core packages emit events through two small interfaces; main (or
// a test) registers implementations once at startup and the defaults
// are no-ops. Because registration flows from the binary down into the
// library, the arrangement cannot create an import cycle, and a binary
// that registers nothing pays two interface calls per event.
//
// Register at startup:
//
//	observability.SetPipelineHooks(&prometheusHooks{})
//	observability.SetCacheHooks(&prometheusHooks{})
//
// The pipeline emits events around each stage:
//
//	observability.Pipeline().OnSolveStart(ctx, strategy, clusters)
//	// ... solve ...
//	observability.Pipeline().OnSolveComplete(ctx, strategy, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives an event pair around each stage of a scoring
// run: artifact loading, the trajectory solve, per-sample propagation,
// and table writing. Complete events carry the stage duration and its
// error, nil on success.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, gnnDir string)
	OnLoadComplete(ctx context.Context, gnnDir string, clusters, samples int, duration time.Duration, err error)

	OnSolveStart(ctx context.Context, strategy string, clusters int)
	OnSolveComplete(ctx context.Context, strategy string, duration time.Duration, err error)

	// Propagation events fire once per sample.
	OnPropagateStart(ctx context.Context, sample string, cells int)
	OnPropagateComplete(ctx context.Context, sample string, duration time.Duration, err error)

	OnWriteStart(ctx context.Context, outDir string)
	OnWriteComplete(ctx context.Context, outDir string, files int, duration time.Duration, err error)
}

// CacheHooks receives cache traffic events. keyType is the key prefix
// ("trajectory", "render"), never the key itself.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks discards all pipeline events. It is the registered
// default, and custom hooks can embed it to pick out single events.
type NoopPipelineHooks struct{}

var _ PipelineHooks = NoopPipelineHooks{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnSolveStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnSolveComplete(context.Context, string, time.Duration, error)      {}
func (NoopPipelineHooks) OnPropagateStart(context.Context, string, int)                      {}
func (NoopPipelineHooks) OnPropagateComplete(context.Context, string, time.Duration, error)  {}
func (NoopPipelineHooks) OnWriteStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnWriteComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks discards all cache events.
type NoopCacheHooks struct{}

var _ CacheHooks = NoopCacheHooks{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// hooks is the process-wide registry. Reads outnumber writes by orders
// of magnitude, so an RWMutex keeps the emit path cheap.
var hooks = struct {
	sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
}{pipeline: NoopPipelineHooks{}, cache: NoopCacheHooks{}}

// SetPipelineHooks registers h for pipeline events. Call it once at
// startup, before the first run; nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.pipeline = h
	hooks.Unlock()
}

// SetCacheHooks registers h for cache events. Call it once at startup;
// nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.cache = h
	hooks.Unlock()
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.pipeline
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.cache
}

// Reset restores the no-op defaults. Tests use it to unhook themselves.
func Reset() {
	hooks.Lock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.Unlock()
}
