package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// expiryHeaderLen is the fixed entry prefix: a big-endian int64 holding
// the expiry as UnixNano, zero for entries that never expire. The
// payload follows unencoded, so multi-megabyte PNG renders are stored
// byte-for-byte instead of ballooning through a text envelope.
const expiryHeaderLen = 8

// FileCache stores entries as flat files under a directory, sharded by
// key hash so one long run's entries do not pile up in a single flat
// directory. It is the default backend for CLI runs.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory,
// creating the directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value. Corrupt or expired entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	if len(data) < expiryHeaderLen {
		_ = os.Remove(path)
		return nil, false, nil
	}
	expiry := int64(binary.BigEndian.Uint64(data[:expiryHeaderLen]))
	if expiry != 0 && time.Now().UnixNano() > expiry {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return data[expiryHeaderLen:], true, nil
}

// Set stores a value. The entry is written to a temporary file in the
// shard directory and renamed into place, so readers never observe a
// half-written entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiry int64
	if ttl > 0 {
		expiry = time.Now().Add(ttl).UnixNano()
	}

	entry := make([]byte, expiryHeaderLen+len(data))
	binary.BigEndian.PutUint64(entry[:expiryHeaderLen], uint64(expiry))
	copy(entry[expiryHeaderLen:], data)

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(shard, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(entry); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close does nothing for the file backend.
func (c *FileCache) Close() error { return nil }

// path maps a key to its entry file: <dir>/<hash[:2]>/<hash[2:]>.bin.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".bin")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
