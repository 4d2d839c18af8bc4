package model

import (
	"fmt"
	"strconv"
	"time"
)

// Holds all external facing types and constants.

// A single scheduled departure, as loaded from the schedule file.
//
// Departure is a time of day in HHMMSS form. For valid values lexical
// order equals chronological order, so rows can be compared and
// range-filtered as plain strings.
type Row struct {
	Route     string
	Departure string
}

// DepartureTime returns the departure as an offset from midnight.
func (r *Row) DepartureTime() time.Duration {
	h, _ := strconv.Atoi(r.Departure[0:2])
	m, _ := strconv.Atoi(r.Departure[2:4])
	s, _ := strconv.Atoi(r.Departure[4:6])
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// Clock returns the departure formatted as HH:MM:SS.
func (r *Row) Clock() string {
	return fmt.Sprintf("%s:%s:%s", r.Departure[0:2], r.Departure[2:4], r.Departure[4:6])
}

// A departure annotated for display.
type Departure struct {
	Route    string
	Time     string
	TimeLeft string
}
