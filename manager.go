package busboard

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"

	"busboard.dev/busboard/parse"
	"busboard.dev/busboard/storage"
)

var ErrNoSchedule = errors.New("no schedule found")

// Manager loads schedule files into storage and hands out Schedules
// backed by it. A file is parsed at most once per content hash;
// repeat loads of unchanged data are served straight from storage.
type Manager struct {
	storage storage.Storage
}

func NewManager(s storage.Storage) *Manager {
	return &Manager{storage: s}
}

// Load returns the schedule at path, parsing it only if its contents
// aren't already in storage.
func (m *Manager) Load(path string) (*Schedule, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule at %s: %w", path, err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(body))

	schedules, err := m.storage.ListSchedules()
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	for _, metadata := range schedules {
		if metadata.SHA256 != hash {
			continue
		}
		reader, err := m.storage.GetReader(hash)
		if err != nil {
			return nil, fmt.Errorf("getting reader: %w", err)
		}
		return NewSchedule(reader, metadata), nil
	}

	writer, err := m.storage.GetWriter(hash)
	if err != nil {
		return nil, fmt.Errorf("getting writer: %w", err)
	}

	metadata, err := parse.ParseSchedule(writer, body)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule: %w", err)
	}
	metadata.SHA256 = hash
	metadata.Path = path
	metadata.LoadedAt = time.Now().UTC()

	err = m.storage.WriteScheduleMetadata(metadata)
	if err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	reader, err := m.storage.GetReader(hash)
	if err != nil {
		return nil, fmt.Errorf("getting reader: %w", err)
	}

	return NewSchedule(reader, metadata), nil
}

// LoadCached returns the most recently loaded schedule already in
// storage, without touching the filesystem. ErrNoSchedule if storage
// holds none.
func (m *Manager) LoadCached() (*Schedule, error) {
	schedules, err := m.storage.ListSchedules()
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	if len(schedules) == 0 {
		return nil, ErrNoSchedule
	}

	// ListSchedules returns most recently loaded first.
	metadata := schedules[0]
	reader, err := m.storage.GetReader(metadata.SHA256)
	if err != nil {
		return nil, fmt.Errorf("getting reader: %w", err)
	}

	return NewSchedule(reader, metadata), nil
}
