// Package config loads the optional nichetrace.toml configuration file.
//
// The file supplies defaults for the score pipeline; explicit command
// line flags always win over configured values. Unknown keys are
// rejected so typos surface instead of silently configuring nothing.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
	"github.com/nichetrace/nichetrace/pkg/trajectory"
)

// Config mirrors the nichetrace.toml layout.
type Config struct {
	Trajectory TrajectoryConfig `toml:"trajectory"`
	Paths      PathsConfig      `toml:"paths"`
	Cache      CacheConfig      `toml:"cache"`
}

// TrajectoryConfig configures the path solver.
type TrajectoryConfig struct {
	// Strategy is the solver strategy, BF or TSP. Empty means the
	// pipeline default.
	Strategy string `toml:"strategy"`

	// Reverse flips the trajectory direction after solving.
	Reverse bool `toml:"reverse"`
}

// PathsConfig configures input and output locations.
type PathsConfig struct {
	// GNNDir holds the upstream stage outputs (loading matrix,
	// connectivity matrix, niche weight matrices).
	GNNDir string `toml:"gnn_dir"`

	// Manifest is the samples manifest path.
	Manifest string `toml:"manifest"`

	// OutDir receives the score tables and the run summary.
	OutDir string `toml:"out_dir"`
}

// CacheConfig configures the trajectory cache.
type CacheConfig struct {
	// Dir overrides the default cache directory.
	Dir string `toml:"dir"`

	// TTL overrides the default entry lifetime, as a Go duration
	// string such as "720h".
	TTL Duration `toml:"ttl"`

	// RedisAddr switches to the redis backend at host:port.
	RedisAddr string `toml:"redis_addr"`

	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`
}

// Duration wraps time.Duration so TOML values like "24h" decode.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidConfig, err,
			"config file %s does not exist", path)
	}
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidConfig, err,
			"read config file %s", path)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidConfig, err,
			"parse config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, nterrors.New(nterrors.ErrCodeInvalidConfig,
			"unknown keys in %s: %v", path, undecoded)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values without requiring any to be set.
func (c *Config) Validate() error {
	if c.Trajectory.Strategy != "" {
		if _, err := trajectory.ParseStrategy(c.Trajectory.Strategy); err != nil {
			return nterrors.Wrap(nterrors.ErrCodeInvalidConfig, err,
				"trajectory.strategy")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return nterrors.New(nterrors.ErrCodeInvalidConfig,
			"cache.ttl cannot be negative")
	}
	if c.Cache.RedisAddr != "" {
		if err := nterrors.ValidateRedisAddr(c.Cache.RedisAddr); err != nil {
			return nterrors.Wrap(nterrors.ErrCodeInvalidConfig, err,
				"cache.redis_addr")
		}
	}
	return nil
}
