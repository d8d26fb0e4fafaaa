// Package cache provides caching for expensive pipeline stages.
//
// Two backends are available:
//   - FileCache: file-based cache for CLI usage (default)
//   - RedisCache: redis-backed cache for shared or server deployments
//
// Keys are built by a Keyer so every caller derives them the same way.
// Solved trajectories are content addressed: the key covers the
// connectivity matrix hash and the solver options, so a cached ordering
// can never be served for different input.
package cache

import (
	"context"
	"time"
)

// TTLs for cached data. Content-addressed entries never go stale; the
// TTL only bounds disk or memory growth.
const (
	// TTLTrajectory applies to solved cluster orderings.
	TTLTrajectory = 30 * 24 * time.Hour

	// TTLRender applies to rendered connectivity graphs.
	TTLRender = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present; an expired or corrupt entry counts as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero stores the value without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TrajectoryKeyOpts are the solver options that affect a cached ordering.
type TrajectoryKeyOpts struct {
	// Strategy is the solver strategy name (BF or TSP).
	Strategy string
}

// RenderKeyOpts are the render options that affect a cached graph image.
type RenderKeyOpts struct {
	// Format is the output format (dot, svg, or png).
	Format string

	// Scored is true when node fills encode trajectory scores.
	Scored bool
}

// Keyer builds cache keys for the pipeline stages worth caching.
type Keyer interface {
	// TrajectoryKey keys a solved ordering by the connectivity matrix
	// hash and the solver options.
	TrajectoryKey(matrixHash string, opts TrajectoryKeyOpts) string

	// RenderKey keys a rendered connectivity graph by the matrix hash
	// and the render options.
	RenderKey(matrixHash string, opts RenderKeyOpts) string
}

// DefaultKeyer builds keys of the form prefix:sha256(parts).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TrajectoryKey generates a key for a solved cluster ordering.
func (k *DefaultKeyer) TrajectoryKey(matrixHash string, opts TrajectoryKeyOpts) string {
	return hashKey("trajectory", matrixHash, opts)
}

// RenderKey generates a key for a rendered connectivity graph.
func (k *DefaultKeyer) RenderKey(matrixHash string, opts RenderKeyOpts) string {
	return hashKey("render", matrixHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
