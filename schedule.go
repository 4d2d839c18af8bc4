package busboard

import (
	"fmt"
	"sort"
	"time"

	"busboard.dev/busboard/model"
	"busboard.dev/busboard/storage"
)

// DefaultLimit caps the number of rows in a next-departures listing.
const DefaultLimit = 4

// Schedule answers departure queries against one loaded schedule.
//
// All queries take an explicit now; the time of day is snapshotted
// from it once per call, so every row in a result is filtered and
// annotated against the same instant.
type Schedule struct {
	Metadata *storage.ScheduleMetadata
	Reader   storage.ScheduleReader
}

func NewSchedule(reader storage.ScheduleReader, metadata *storage.ScheduleMetadata) *Schedule {
	return &Schedule{
		Metadata: metadata,
		Reader:   reader,
	}
}

// Returns upcoming departures for a route, soonest first.
//
// Only rows departing strictly after now are included. If limit is
// >= 0, at most limit rows are returned. No matches is a normal
// outcome and yields an empty slice.
func (s *Schedule) NextDepartures(route string, now time.Time, limit int) ([]model.Departure, error) {
	departures := []model.Departure{}

	if limit == 0 {
		return departures, nil
	}

	nowOffset := timeOfDay(now)

	rows, err := s.Reader.Departures(storage.DepartureFilter{
		Route: route,
		After: hhmmss(nowOffset),
	})
	if err != nil {
		return nil, fmt.Errorf("getting departures: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Departure < rows[j].Departure
	})

	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	for _, row := range rows {
		departures = append(departures, annotate(row, nowOffset))
	}

	return departures, nil
}

// Returns the most recent departure before now for a route, or nil
// if none of the route's departures have passed yet.
//
// The annotation goes through the same formatter as upcoming
// departures, and since the row is in the past the wraparound rule
// always fires: TimeLeft describes the wait until tomorrow's run of
// the same departure, not how long ago it left.
func (s *Schedule) MostRecentPast(route string, now time.Time) (*model.Departure, error) {
	nowOffset := timeOfDay(now)

	rows, err := s.Reader.Departures(storage.DepartureFilter{
		Route:  route,
		Before: hhmmss(nowOffset),
	})
	if err != nil {
		return nil, fmt.Errorf("getting departures: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Departure < rows[j].Departure
	})

	departure := annotate(rows[len(rows)-1], nowOffset)
	return &departure, nil
}

// Returns the last departure of the day still ahead for a route, or
// nil if the route has no departures left today.
func (s *Schedule) LastOfDay(route string, now time.Time) (*model.Departure, error) {
	nowOffset := timeOfDay(now)

	rows, err := s.Reader.Departures(storage.DepartureFilter{
		Route: route,
		After: hhmmss(nowOffset),
	})
	if err != nil {
		return nil, fmt.Errorf("getting departures: %w", err)
	}

	if len(rows) == 0 {
		// Day exhausted.
		return nil, nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Departure < rows[j].Departure
	})

	departure := annotate(rows[len(rows)-1], nowOffset)
	return &departure, nil
}

// Routes returns the distinct route labels in the schedule.
func (s *Schedule) Routes() ([]string, error) {
	routes, err := s.Reader.Routes()
	if err != nil {
		return nil, fmt.Errorf("getting routes: %w", err)
	}
	return routes, nil
}

func annotate(row *model.Row, now time.Duration) model.Departure {
	return model.Departure{
		Route:    row.Route,
		Time:     row.Clock(),
		TimeLeft: TimeLeft(row.DepartureTime(), now),
	}
}
