// Package cache keeps rendered translated subtitle files on disk so that
// replaying the same video does not hit the translation service again.
package cache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

const entryExt = ".srt"

// Store is a flat directory of cached translations, one file per key.
type Store struct {
	root string
}

// NewStore opens (creating if needed) a cache directory.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{root: root}, nil
}

// Key derives a cache entry name from the source identity (the video or
// subtitle path, stripped of per-instance query strings by the caller), the
// exact subtitle bytes and the target language. Any change to either input
// yields a different key.
func Key(sourceID string, subtitle []byte, targetLang string) string {
	h := blake3.New()
	h.Write([]byte(sourceID))
	h.Write([]byte{0})
	h.Write(subtitle)
	h.Write([]byte{0})
	h.Write([]byte(targetLang))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached content for key, or ok=false on a miss.
func (s *Store) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	return data, true, nil
}

// Put stores content under key. The write is atomic: a temp file in the
// same directory, then a rename, so a concurrent Get never sees a partial
// entry.
func (s *Store) Put(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.root, ".entry-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename cache entry: %w", err)
	}
	return nil
}

// Clean removes entries older than maxAge and leftover temp files. It
// returns the number of entries removed; individual removal failures are
// skipped, not fatal.
func (s *Store) Clean(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		isTemp := strings.HasPrefix(name, ".entry-")
		if !isTemp && !strings.HasSuffix(name, entryExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !isTemp && info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, name)); err == nil && !isTemp {
			removed++
		}
	}
	return removed, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.root, key+entryExt)
}
