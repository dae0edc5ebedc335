package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"boss_respawn_bot/internal/domain/timer"

	"github.com/sirupsen/logrus"
)

// FileStore persists the state document as one JSON file. Saves go through a
// temp file in the same directory followed by a rename, so a crash or a
// concurrent reader never observes a partial write. One process-wide mutex
// serializes every Update and View over its whole load-mutate-save sequence.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  *logrus.Entry
}

// NewFileStore creates a store backed by the file at path. The file does not
// need to exist yet.
func NewFileStore(path string, log *logrus.Entry) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the state document. An absent file is a normal first run. An
// unreadable or unparseable file is treated as data loss: it is logged at
// error level and an empty document is returned, never a fatal error.
func (s *FileStore) Load() *timer.State {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.WithError(err).WithField("path", s.path).
				Error("state file unreadable, continuing with empty state (previous timers are lost)")
		}
		return timer.NewState()
	}

	st := timer.NewState()
	if err := json.Unmarshal(raw, st); err != nil {
		s.log.WithError(err).WithField("path", s.path).
			Error("state file corrupt, continuing with empty state (previous timers are lost)")
		return timer.NewState()
	}
	st.Reset()
	return st
}

// Save writes the document atomically: full content to a temp file beside
// the target, fsync'd, then renamed into place.
func (s *FileStore) Save(st *timer.State) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Update runs one read-modify-write sequence under the store lock. The
// command path and the reminder scheduler both come through here, so a
// registration can never interleave with an expiry scan on the same key.
// fn returning timer.ErrNoChange skips the save and counts as success.
func (s *FileStore) Update(fn func(*timer.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.Load()
	if err := fn(st); err != nil {
		if errors.Is(err, timer.ErrNoChange) {
			return nil
		}
		return err
	}
	return s.Save(st)
}

// View runs a read-only fn over a loaded document under the store lock.
func (s *FileStore) View(fn func(*timer.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Load())
}
