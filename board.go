package busboard

import (
	"fmt"
	"time"

	"busboard.dev/busboard/model"
)

// A Section is one rendered table of the departure board.
type Section struct {
	Title      string
	Departures []model.Departure

	// Shown instead of the table when Departures is empty.
	Empty string

	// Shown under a non-empty table.
	Warning string
}

// Board assembles the three board sections: upcoming departures in
// each direction, then the last homebound run of the day. Renderers
// display the sections verbatim.
func (s *Schedule) Board(outbound, inbound string, now time.Time, limit int) ([]Section, error) {
	out, err := s.NextDepartures(outbound, now, limit)
	if err != nil {
		return nil, fmt.Errorf("next departures for %s: %w", outbound, err)
	}

	in, err := s.NextDepartures(inbound, now, limit)
	if err != nil {
		return nil, fmt.Errorf("next departures for %s: %w", inbound, err)
	}

	last, err := s.LastOfDay(inbound, now)
	if err != nil {
		return nil, fmt.Errorf("last departure for %s: %w", inbound, err)
	}

	sections := []Section{
		{
			Title:      outbound,
			Departures: out,
			Empty:      "No upcoming buses available.",
		},
		{
			Title:      inbound,
			Departures: in,
			Empty:      "No upcoming buses available.",
		},
	}

	lastSection := Section{
		Title: "Last Bus (" + inbound + ")",
		Empty: "No buses left today.",
	}
	if last != nil {
		lastSection.Departures = []model.Departure{*last}
		lastSection.Warning = "If you miss this bus, there are no more buses for today."
	}

	return append(sections, lastSection), nil
}
