package storage

import (
	"fmt"
	"sort"

	"busboard.dev/busboard/model"
)

// In memory implementation of Storage below

type MemoryStorage struct {
	Schedules map[string]*MemorySchedule
	Metadata  map[string]*ScheduleMetadata
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Schedules: map[string]*MemorySchedule{},
		Metadata:  map[string]*ScheduleMetadata{},
	}
}

func (s *MemoryStorage) ListSchedules() ([]*ScheduleMetadata, error) {
	schedules := []*ScheduleMetadata{}
	for _, metadata := range s.Metadata {
		schedules = append(schedules, metadata)
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].LoadedAt.After(schedules[j].LoadedAt)
	})
	return schedules, nil
}

func (s *MemoryStorage) WriteScheduleMetadata(metadata *ScheduleMetadata) error {
	s.Metadata[metadata.SHA256] = metadata
	return nil
}

func (s *MemoryStorage) DeleteSchedule(sha256 string) error {
	if _, found := s.Metadata[sha256]; !found {
		return fmt.Errorf("schedule not found")
	}
	delete(s.Metadata, sha256)
	delete(s.Schedules, sha256)
	return nil
}

func (s *MemoryStorage) GetReader(sha256 string) (ScheduleReader, error) {
	sched, ok := s.Schedules[sha256]
	if !ok {
		return nil, fmt.Errorf("schedule not found")
	}
	return sched, nil
}

func (s *MemoryStorage) GetWriter(sha256 string) (ScheduleWriter, error) {
	sched := &MemorySchedule{
		rows:        []*model.Row{},
		rowsByRoute: map[string][]*model.Row{},
	}
	s.Schedules[sha256] = sched
	return sched, nil
}

type MemorySchedule struct {
	rows        []*model.Row
	rowsByRoute map[string][]*model.Row
}

func (m *MemorySchedule) BeginRows() error {
	return nil
}

func (m *MemorySchedule) WriteRow(row *model.Row) error {
	m.rows = append(m.rows, row)
	return nil
}

// EndRows builds the per route index. Index slices are kept sorted by
// departure so reads can serve them without re-sorting.
func (m *MemorySchedule) EndRows() error {
	for _, row := range m.rows {
		m.rowsByRoute[row.Route] = append(m.rowsByRoute[row.Route], row)
	}
	for _, rows := range m.rowsByRoute {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Departure < rows[j].Departure
		})
	}
	return nil
}

func (m *MemorySchedule) Close() error {
	return nil
}

func (m *MemorySchedule) Rows() ([]*model.Row, error) {
	return m.rows, nil
}

func (m *MemorySchedule) Routes() ([]string, error) {
	routes := []string{}
	for route := range m.rowsByRoute {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes, nil
}

func (m *MemorySchedule) Departures(filter DepartureFilter) ([]*model.Row, error) {
	var rows []*model.Row
	if filter.Route != "" {
		rows = m.rowsByRoute[filter.Route]
	} else {
		for _, route := range m.rowsByRoute {
			rows = append(rows, route...)
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Departure < rows[j].Departure
		})
	}

	matched := []*model.Row{}
	for _, row := range rows {
		if filter.After != "" && row.Departure <= filter.After {
			continue
		}
		if filter.Before != "" && row.Departure >= filter.Before {
			continue
		}
		matched = append(matched, row)
	}

	return matched, nil
}
