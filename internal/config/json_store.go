package config

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/normalize"
)

const (
	stateFileName = "soundkeeper.json"
	debounceDelay = 500 * time.Millisecond

	// Watch events arriving this soon after our own write are echoes of
	// that write, not external edits.
	selfWriteWindow = 2 * time.Second
)

// JSONStore is an atomic JSON file store with debounced writes. Loaded
// snapshots pass through the normalization layer, so hand-edited or
// legacy-shaped files still produce a canonical state.
type JSONStore struct {
	mu        sync.Mutex
	path      string
	timer     *time.Timer
	pending   *models.State
	lastWrite time.Time
}

// NewJSONStore creates a new JSON store in the given config directory.
func NewJSONStore(configDir string) *JSONStore {
	return &JSONStore{
		path: filepath.Join(configDir, stateFileName),
	}
}

// Path returns the file path used by this store.
func (s *JSONStore) Path() string { return s.path }

// Load reads the state from disk through the normalization layer.
// Returns the seeded default state on ENOENT or parse errors.
func (s *JSONStore) Load() (*models.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := models.DefaultState()
			return &def, nil
		}
		return nil, err
	}

	var raw normalize.RawState
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("config: corrupt state file, using defaults", "path", s.path, "err", err)
		def := models.DefaultState()
		return &def, nil
	}

	state := normalize.State(raw)
	return &state, nil
}

// Save schedules a debounced write of the state to disk.
func (s *JSONStore) Save(state *models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := state.DeepCopy()
	s.pending = &cp

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceDelay, func() {
		s.mu.Lock()
		st := s.pending
		s.mu.Unlock()
		if st != nil {
			if err := s.writeAtomic(st); err != nil {
				slog.Error("config: failed to write state", "path", s.path, "err", err)
			}
		}
	})
	return nil
}

// Flush forces an immediate write of any pending state.
func (s *JSONStore) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	st := s.pending
	s.mu.Unlock()
	if st == nil {
		return nil
	}
	return s.writeAtomic(st)
}

// Watch invokes onReload with a freshly loaded state whenever the state
// file is modified by something other than this store. It blocks until
// ctx is done. Errors setting up the watcher are returned immediately;
// per-event load failures are logged and skipped.
func (s *JSONStore) Watch(ctx context.Context, onReload func(*models.State)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != s.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.mu.Lock()
			selfWrite := time.Since(s.lastWrite) < selfWriteWindow
			s.mu.Unlock()
			if selfWrite {
				continue
			}
			state, err := s.Load()
			if err != nil {
				slog.Warn("config: reload after external edit failed", "path", s.path, "err", err)
				continue
			}
			slog.Info("config: state file changed externally, reloading", "path", s.path)
			onReload(state)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config: watcher error", "err", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *JSONStore) writeAtomic(state *models.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	// Write to temp file, then rename (atomic on Linux)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastWrite = time.Now()
	s.mu.Unlock()
	return nil
}
