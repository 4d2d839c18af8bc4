package parse

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"busboard.dev/busboard/model"
	"busboard.dev/busboard/storage"
)

type rowCSV struct {
	Route         string `csv:"Route"`
	DepartureTime string `csv:"Departure Time"`
}

// parseDepartureTime normalizes a raw departure field to HHMMSS. Only
// the trailing 8 characters are considered; anything before them
// (e.g. a date prefix) is ignored.
func parseDepartureTime(s string) (string, error) {
	if len(s) < 8 {
		return "", fmt.Errorf("'%s' is too short for HH:MM:SS", s)
	}
	s = s[len(s)-8:]

	split := strings.Split(s, ":")
	if len(split) != 3 {
		return "", fmt.Errorf("found %d parts in '%s'", len(split), s)
	}

	hms := [3]int{}
	for i, str := range split {
		j, err := strconv.Atoi(str)
		if err != nil {
			return "", fmt.Errorf("non-integer in '%s' pos %d", s, i)
		}
		hms[i] = j
	}

	if hms[0] < 0 || hms[0] > 23 {
		return "", fmt.Errorf("invalid hour in '%s'", s)
	}

	if hms[1] < 0 || hms[1] > 59 {
		return "", fmt.Errorf("invalid minute in '%s'", s)
	}

	if hms[2] < 0 || hms[2] > 59 {
		return "", fmt.Errorf("invalid second in '%s'", s)
	}

	return fmt.Sprintf("%02d%02d%02d", hms[0], hms[1], hms[2]), nil
}

// ParseSchedule parses a schedule CSV into the writer. Any malformed
// row fails the whole parse. Returns a (partial) metadata record for
// the schedule; the caller fills in hash, path and load time.
func ParseSchedule(writer storage.ScheduleWriter, buf []byte) (*storage.ScheduleMetadata, error) {
	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	err := writer.BeginRows()
	if err != nil {
		return nil, fmt.Errorf("beginning rows: %w", err)
	}

	rowCount := 0
	minDeparture := ""
	maxDeparture := ""

	i := -1
	err = gocsv.UnmarshalToCallbackWithError(bytes.NewReader(buf), func(r *rowCSV) error {
		i += 1
		if r.Route == "" {
			return fmt.Errorf("missing Route (row %d)", i+1)
		}

		departure, err := parseDepartureTime(r.DepartureTime)
		if err != nil {
			return errors.Wrapf(err, "parsing Departure Time (row %d)", i+1)
		}

		if minDeparture == "" || departure < minDeparture {
			minDeparture = departure
		}
		if departure > maxDeparture {
			maxDeparture = departure
		}
		rowCount += 1

		err = writer.WriteRow(&model.Row{
			Route:     r.Route,
			Departure: departure,
		})
		if err != nil {
			return errors.Wrapf(err, "writing row (row %d)", i+1)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling schedule csv")
	}

	err = writer.EndRows()
	if err != nil {
		return nil, fmt.Errorf("ending rows: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("closing schedule writer: %w", err)
	}

	return &storage.ScheduleMetadata{
		RowCount:     rowCount,
		MinDeparture: minDeparture,
		MaxDeparture: maxDeparture,
	}, nil
}
