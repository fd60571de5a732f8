// Package cache persists the mapping from a video identity to the clips
// already produced for it. The record is a single JSON file loaded fully on
// each operation and rewritten fully on each mutation; entry counts are
// small and writes are rare relative to reads.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forPelevin/reelcut/internal/types"
)

// Store is the on-disk result cache. All operations re-read the record so
// external artifact deletions are always observed.
type Store struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

func New(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// record is the wire form: identity -> ordered clip locators.
type record map[string][]string

// IsCached reports whether id has a complete entry: the record lists it AND
// every listed artifact still exists in storage. A single missing artifact
// invalidates the whole entry.
func (s *Store) IsCached(id types.VideoID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, ok := s.load()[string(id)]
	if !ok || len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			s.log.Debug().Str("video_id", string(id)).Str("path", p).
				Msg("cached artifact missing, entry invalidated")
			return false
		}
	}
	return true
}

// Get returns the cached clips for id in delivery order, empty if absent.
func (s *Store) Get(id types.VideoID) []types.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.load()[string(id)]
	clips := make([]types.Clip, 0, len(paths))
	for i, p := range paths {
		clips = append(clips, types.Clip{Path: p, Ordinal: i})
	}
	return clips
}

// Put replaces the whole entry for id. The record file is rewritten via a
// temp file and rename so readers never observe a partial write.
func (s *Store) Put(id types.VideoID, clips []types.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load()
	paths := make([]string, len(clips))
	for i, c := range clips {
		paths[i] = c.Path
	}
	rec[string(id)] = paths
	return s.save(rec)
}

// load reads the record from disk. A missing or corrupted file yields an
// empty record; corruption is logged and healed on the next Put.
func (s *Store) load() record {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("cache record unreadable, treating as empty")
		}
		return record{}
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("cache record corrupted, treating as empty")
		return record{}
	}
	if rec == nil {
		rec = record{}
	}
	return rec
}

func (s *Store) save(rec record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cache record: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cache record: %w", err)
	}
	return nil
}
