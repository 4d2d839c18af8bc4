package storage

import (
	"time"

	"busboard.dev/busboard/model"
)

type Storage interface {
	// Retrieves all schedule metadata records, most recently
	// loaded first.
	ListSchedules() ([]*ScheduleMetadata, error)

	// Writes a ScheduleMetadata record. If a record with the same
	// hash exists, it is updated.
	WriteScheduleMetadata(metadata *ScheduleMetadata) error

	// Deletes a schedule and its rows.
	DeleteSchedule(sha256 string) error

	// Gets a reader for the schedule with the given hash.
	GetReader(sha256 string) (ScheduleReader, error)

	// Gets a writer for the schedule with the given hash.
	GetWriter(sha256 string) (ScheduleWriter, error)
}

// Metadata for a parsed schedule. The rows can be accessed via
// ScheduleReader.
type ScheduleMetadata struct {
	SHA256       string
	Path         string
	LoadedAt     time.Time
	RowCount     int
	MinDeparture string
	MaxDeparture string
}

// Writes rows for a single schedule.
//
// BeginRows() and EndRows() are called before and after all calls to
// WriteRow(), allowing transactions/batching/whathaveyou.
type ScheduleWriter interface {
	BeginRows() error
	WriteRow(row *model.Row) error
	EndRows() error
	Close() error
}

// Departure bounds are HHMMSS strings and strict: After keeps rows
// departing strictly later, Before keeps rows departing strictly
// earlier. Blank fields don't filter.
type DepartureFilter struct {
	// If set, only include rows with exactly this route label.
	Route string

	After  string
	Before string
}

type ScheduleReader interface {
	// All rows, in file order.
	Rows() ([]*model.Row, error)

	// Distinct route labels, sorted.
	Routes() ([]string, error)

	// Rows matching the filter, sorted ascending by departure
	// time.
	Departures(filter DepartureFilter) ([]*model.Row, error)
}
