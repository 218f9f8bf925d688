// Package store persists the scheduling state as three JSON collections,
// mirroring the portal's local-storage layout: nurses (with embedded
// availability and blocked dates), appointments and notifications.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/renalhub/nurse-scheduling/internal/schedule"
)

const (
	nursesFile        = "nurses.json"
	appointmentsFile  = "appointments.json"
	notificationsFile = "notifications.json"
)

// FileStore reads and writes the snapshot under a single data directory.
// Writes go through a temp file and rename so a crash mid-flush never
// leaves a half-written collection.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the three collections. Missing files yield empty collections
// so a fresh data directory starts clean.
func (s *FileStore) Load(ctx context.Context) (schedule.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap schedule.Snapshot
	if err := s.readCollection(nursesFile, &snap.Nurses); err != nil {
		return schedule.Snapshot{}, err
	}
	if err := s.readCollection(appointmentsFile, &snap.Appointments); err != nil {
		return schedule.Snapshot{}, err
	}
	if err := s.readCollection(notificationsFile, &snap.Notifications); err != nil {
		return schedule.Snapshot{}, err
	}
	return snap, nil
}

// Flush writes all three collections.
func (s *FileStore) Flush(ctx context.Context, snap schedule.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeCollection(nursesFile, snap.Nurses); err != nil {
		return err
	}
	if err := s.writeCollection(appointmentsFile, snap.Appointments); err != nil {
		return err
	}
	return s.writeCollection(notificationsFile, snap.Notifications)
}

// Ready reports whether the data directory is usable, for readiness checks.
func (s *FileStore) Ready() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *FileStore) readCollection(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) writeCollection(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
