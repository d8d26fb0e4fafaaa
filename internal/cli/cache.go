package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nichetrace/nichetrace/pkg/cache"
	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the trajectory cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached trajectory solutions",
		RunE: func(*cobra.Command, []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("locate cache directory: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count, err := removeEntries(dir)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// removeEntries deletes every file under dir, then prunes the emptied
// shard directories. Unreadable entries are skipped, not fatal.
func removeEntries(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir || d.IsDir() {
			return nil
		}
		if os.Remove(path) == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && path != dir && d.IsDir() {
			os.Remove(path)
		}
		return nil
	})

	return count, nil
}

// newCachePathCmd creates the "cache path" subcommand. Output is the
// bare path so scripts can use it directly.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(*cobra.Command, []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("locate cache directory: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/nichetrace/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newCache builds the cache backend for a pipeline run. Redis wins over
// a custom directory; with neither set, the XDG cache directory is used.
// When the directory cannot be determined, caching quietly degrades to
// the null backend rather than failing the run.
func newCache(dir, redisAddr string, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		if err := nterrors.ValidateRedisAddr(redisAddr); err != nil {
			return nil, err
		}
		return cache.NewRedisCache(redisAddr), nil
	}
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			printWarning("Cache directory unavailable, caching disabled")
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeCache, err, "opening cache at %s", dir)
	}
	return fc, nil
}
