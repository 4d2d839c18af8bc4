package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"busboard.dev/busboard/model"
)

type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

type SQLiteStorage struct {
	SQLiteConfig

	db *sql.DB
}

func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	onDisk := false
	directory := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = directory + "/busboard.db"
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS schedule (
    sha256 TEXT,
    path TEXT NOT NULL,
    loaded_at TIMESTAMP NOT NULL,
    row_count INTEGER NOT NULL,
    min_departure TEXT NOT NULL,
    max_departure TEXT NOT NULL,
PRIMARY KEY (sha256)
);

CREATE TABLE IF NOT EXISTS schedule_row (
    sha256 TEXT NOT NULL,
    route TEXT NOT NULL,
    departure TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS schedule_row_departure ON schedule_row (sha256, route, departure);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schedule tables: %w", err)
	}

	return &SQLiteStorage{
		SQLiteConfig: SQLiteConfig{
			OnDisk:    onDisk,
			Directory: directory,
		},
		db: db,
	}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) ListSchedules() ([]*ScheduleMetadata, error) {
	rows, err := s.db.Query(`
SELECT sha256, path, loaded_at, row_count, min_departure, max_departure
FROM schedule
ORDER BY loaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	schedules := []*ScheduleMetadata{}
	for rows.Next() {
		metadata := &ScheduleMetadata{}
		var loadedAt time.Time
		err = rows.Scan(
			&metadata.SHA256,
			&metadata.Path,
			&loadedAt,
			&metadata.RowCount,
			&metadata.MinDeparture,
			&metadata.MaxDeparture,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		metadata.LoadedAt = loadedAt.UTC()
		schedules = append(schedules, metadata)
	}

	return schedules, nil
}

func (s *SQLiteStorage) WriteScheduleMetadata(metadata *ScheduleMetadata) error {
	_, err := s.db.Exec(`
INSERT INTO schedule (sha256, path, loaded_at, row_count, min_departure, max_departure)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (sha256) DO UPDATE SET
    path = excluded.path,
    loaded_at = excluded.loaded_at,
    row_count = excluded.row_count,
    min_departure = excluded.min_departure,
    max_departure = excluded.max_departure`,
		metadata.SHA256,
		metadata.Path,
		metadata.LoadedAt,
		metadata.RowCount,
		metadata.MinDeparture,
		metadata.MaxDeparture,
	)
	if err != nil {
		return fmt.Errorf("upserting schedule: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteSchedule(sha256 string) error {
	result, err := s.db.Exec(`DELETE FROM schedule WHERE sha256 = ?`, sha256)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("schedule not found")
	}
	_, err = s.db.Exec(`DELETE FROM schedule_row WHERE sha256 = ?`, sha256)
	if err != nil {
		return fmt.Errorf("deleting schedule rows: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetReader(sha256 string) (ScheduleReader, error) {
	return &SQLiteScheduleReader{db: s.db, sha256: sha256}, nil
}

func (s *SQLiteStorage) GetWriter(sha256 string) (ScheduleWriter, error) {
	_, err := s.db.Exec(`DELETE FROM schedule_row WHERE sha256 = ?`, sha256)
	if err != nil {
		return nil, fmt.Errorf("clearing schedule rows: %w", err)
	}
	return &SQLiteScheduleWriter{db: s.db, sha256: sha256}, nil
}

type SQLiteScheduleWriter struct {
	db     *sql.DB
	sha256 string

	rowInsertTx    *sql.Tx
	rowInsertQuery *sql.Stmt
}

func (w *SQLiteScheduleWriter) BeginRows() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	query, err := tx.Prepare(`INSERT INTO schedule_row (sha256, route, departure) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	w.rowInsertTx = tx
	w.rowInsertQuery = query
	return nil
}

func (w *SQLiteScheduleWriter) WriteRow(row *model.Row) error {
	if w.rowInsertQuery == nil {
		return fmt.Errorf("BeginRows not called")
	}
	_, err := w.rowInsertQuery.Exec(w.sha256, row.Route, row.Departure)
	if err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}
	return nil
}

func (w *SQLiteScheduleWriter) EndRows() error {
	if w.rowInsertTx == nil {
		return fmt.Errorf("BeginRows not called")
	}
	err := w.rowInsertQuery.Close()
	if err != nil {
		return fmt.Errorf("closing insert: %w", err)
	}
	err = w.rowInsertTx.Commit()
	if err != nil {
		return fmt.Errorf("committing rows: %w", err)
	}
	w.rowInsertTx = nil
	w.rowInsertQuery = nil
	return nil
}

func (w *SQLiteScheduleWriter) Close() error {
	return nil
}

type SQLiteScheduleReader struct {
	db     *sql.DB
	sha256 string
}

func (r *SQLiteScheduleReader) Rows() ([]*model.Row, error) {
	rows, err := r.db.Query(`
SELECT route, departure FROM schedule_row WHERE sha256 = ? ORDER BY rowid`, r.sha256)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

func (r *SQLiteScheduleReader) Routes() ([]string, error) {
	rows, err := r.db.Query(`
SELECT DISTINCT route FROM schedule_row WHERE sha256 = ? ORDER BY route`, r.sha256)
	if err != nil {
		return nil, fmt.Errorf("querying routes: %w", err)
	}
	defer rows.Close()

	routes := []string{}
	for rows.Next() {
		var route string
		if err := rows.Scan(&route); err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func (r *SQLiteScheduleReader) Departures(filter DepartureFilter) ([]*model.Row, error) {
	clauses := []string{"sha256 = ?"}
	values := []interface{}{r.sha256}

	if filter.Route != "" {
		clauses = append(clauses, "route = ?")
		values = append(values, filter.Route)
	}
	if filter.After != "" {
		clauses = append(clauses, "departure > ?")
		values = append(values, filter.After)
	}
	if filter.Before != "" {
		clauses = append(clauses, "departure < ?")
		values = append(values, filter.Before)
	}

	rows, err := r.db.Query(`
SELECT route, departure
FROM schedule_row
WHERE `+strings.Join(clauses, " AND ")+`
ORDER BY departure ASC`, values...)
	if err != nil {
		return nil, fmt.Errorf("querying departures: %w", err)
	}
	defer rows.Close()
	return scanScheduleRows(rows)
}

func scanScheduleRows(rows *sql.Rows) ([]*model.Row, error) {
	result := []*model.Row{}
	for rows.Next() {
		row := &model.Row{}
		if err := rows.Scan(&row.Route, &row.Departure); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		result = append(result, row)
	}
	return result, nil
}
