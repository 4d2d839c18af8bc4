package busboard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busboard.dev/busboard/model"
	"busboard.dev/busboard/parse"
	"busboard.dev/busboard/storage"
)

func scheduleFromRows(t *testing.T, backend string, rows []string) *Schedule {
	var s storage.Storage
	var err error
	if backend == "memory" {
		s = storage.NewMemoryStorage()
	} else if backend == "sqlite" {
		s, err = storage.NewSQLiteStorage()
		require.NoError(t, err)
	} else {
		t.Fatalf("Unknown backend: %s", backend)
	}

	csv := strings.Join(append([]string{"Route,Departure Time"}, rows...), "\n")

	writer, err := s.GetWriter("test")
	require.NoError(t, err)

	metadata, err := parse.ParseSchedule(writer, []byte(csv))
	require.NoError(t, err)
	metadata.SHA256 = "test"
	require.NoError(t, s.WriteScheduleMetadata(metadata))

	reader, err := s.GetReader("test")
	require.NoError(t, err)

	return NewSchedule(reader, metadata)
}

// clock builds a wall time with the given time of day. The date is
// arbitrary; queries only look at the clock.
func clock(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 1, hour, min, sec, 0, time.UTC)
}

var scenarioRows = []string{
	"X→Y,08:00:00",
	"X→Y,09:30:00",
	"Y→X,10:00:00",
}

func testNextDepartures(t *testing.T, backend string) {
	schedule := scheduleFromRows(t, backend, scenarioRows)

	// Both X→Y departures are ahead at 07:45.
	departures, err := schedule.NextDepartures("X→Y", clock(7, 45, 0), 4)
	require.NoError(t, err)
	assert.Equal(t, []model.Departure{
		{Route: "X→Y", Time: "08:00:00", TimeLeft: "15 minutes 0 seconds"},
		{Route: "X→Y", Time: "09:30:00", TimeLeft: "105 minutes 0 seconds"},
	}, departures)

	// The 08:00 has passed at 09:00.
	departures, err = schedule.NextDepartures("X→Y", clock(9, 0, 0), 4)
	require.NoError(t, err)
	assert.Equal(t, []model.Departure{
		{Route: "X→Y", Time: "09:30:00", TimeLeft: "30 minutes 0 seconds"},
	}, departures)

	// A row departing exactly now is not upcoming.
	departures, err = schedule.NextDepartures("X→Y", clock(8, 0, 0), 4)
	require.NoError(t, err)
	assert.Equal(t, []model.Departure{
		{Route: "X→Y", Time: "09:30:00", TimeLeft: "90 minutes 0 seconds"},
	}, departures)

	// Limit caps the result.
	departures, err = schedule.NextDepartures("X→Y", clock(7, 45, 0), 1)
	require.NoError(t, err)
	require.Len(t, departures, 1)
	assert.Equal(t, "08:00:00", departures[0].Time)

	// Unknown route is a normal empty outcome.
	departures, err = schedule.NextDepartures("Nope→Nada", clock(7, 45, 0), 4)
	require.NoError(t, err)
	assert.Equal(t, []model.Departure{}, departures)

	// All departures passed.
	departures, err = schedule.NextDepartures("X→Y", clock(23, 0, 0), 4)
	require.NoError(t, err)
	assert.Equal(t, []model.Departure{}, departures)
}

func TestScheduleNextDepartures(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			testNextDepartures(t, backend)
		})
	}
}

func testNextDeparturesSorted(t *testing.T, backend string) {
	// Rows deliberately out of order in the file.
	schedule := scheduleFromRows(t, backend, []string{
		"X→Y,12:00:00",
		"X→Y,08:00:00",
		"X→Y,10:00:00",
	})

	departures, err := schedule.NextDepartures("X→Y", clock(6, 0, 0), 4)
	require.NoError(t, err)
	require.Len(t, departures, 3)
	assert.Equal(t, "08:00:00", departures[0].Time)
	assert.Equal(t, "10:00:00", departures[1].Time)
	assert.Equal(t, "12:00:00", departures[2].Time)
}

func TestScheduleNextDeparturesSorted(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			testNextDeparturesSorted(t, backend)
		})
	}
}

func testMostRecentPast(t *testing.T, backend string) {
	schedule := scheduleFromRows(t, backend, scenarioRows)

	// 08:00 is the closest past departure at 09:00. The formatter
	// wraps it to tomorrow's run.
	departure, err := schedule.MostRecentPast("X→Y", clock(9, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, departure)
	assert.Equal(t, model.Departure{
		Route:    "X→Y",
		Time:     "08:00:00",
		TimeLeft: "23 hours 0 minutes",
	}, *departure)

	// Both have passed at 10:00; the later one wins.
	departure, err = schedule.MostRecentPast("X→Y", clock(10, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, departure)
	assert.Equal(t, "09:30:00", departure.Time)

	// Nothing has passed before the first run.
	departure, err = schedule.MostRecentPast("X→Y", clock(6, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, departure)

	// A row departing exactly now is not past.
	departure, err = schedule.MostRecentPast("X→Y", clock(8, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, departure)

	// Unknown route.
	departure, err = schedule.MostRecentPast("Nope→Nada", clock(12, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, departure)
}

func TestScheduleMostRecentPast(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			testMostRecentPast(t, backend)
		})
	}
}

func testLastOfDay(t *testing.T, backend string) {
	schedule := scheduleFromRows(t, backend, []string{
		"Work → Palo Alto,17:00:00",
		"Work → Palo Alto,18:30:00",
		"Work → Palo Alto,20:00:00",
	})

	// Mid-afternoon the 20:00 is the last run still ahead.
	departure, err := schedule.LastOfDay("Work → Palo Alto", clock(15, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, departure)
	assert.Equal(t, model.Departure{
		Route:    "Work → Palo Alto",
		Time:     "20:00:00",
		TimeLeft: "5 hours 0 minutes",
	}, *departure)

	// After the 20:00 the day is exhausted, even though past runs
	// exist for the route.
	departure, err = schedule.LastOfDay("Work → Palo Alto", clock(21, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, departure)

	past, err := schedule.MostRecentPast("Work → Palo Alto", clock(21, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, past)
	assert.Equal(t, "20:00:00", past.Time)
}

func TestScheduleLastOfDay(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			testLastOfDay(t, backend)
		})
	}
}

func TestScheduleIdempotence(t *testing.T) {
	schedule := scheduleFromRows(t, "memory", scenarioRows)
	now := clock(9, 0, 0)

	first, err := schedule.NextDepartures("X→Y", now, 4)
	require.NoError(t, err)
	second, err := schedule.NextDepartures("X→Y", now, 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstPast, err := schedule.MostRecentPast("X→Y", now)
	require.NoError(t, err)
	secondPast, err := schedule.MostRecentPast("X→Y", now)
	require.NoError(t, err)
	assert.Equal(t, firstPast, secondPast)
}

func TestScheduleBoard(t *testing.T) {
	schedule := scheduleFromRows(t, "memory", []string{
		"Palo Alto → Work,08:00:00",
		"Palo Alto → Work,09:00:00",
		"Work → Palo Alto,17:30:00",
		"Work → Palo Alto,18:30:00",
	})

	sections, err := schedule.Board("Palo Alto → Work", "Work → Palo Alto", clock(7, 0, 0), 4)
	require.NoError(t, err)
	require.Len(t, sections, 3)

	assert.Equal(t, "Palo Alto → Work", sections[0].Title)
	require.Len(t, sections[0].Departures, 2)
	assert.Equal(t, "08:00:00", sections[0].Departures[0].Time)

	assert.Equal(t, "Work → Palo Alto", sections[1].Title)
	require.Len(t, sections[1].Departures, 2)

	assert.Equal(t, "Last Bus (Work → Palo Alto)", sections[2].Title)
	require.Len(t, sections[2].Departures, 1)
	assert.Equal(t, "18:30:00", sections[2].Departures[0].Time)
	assert.NotEmpty(t, sections[2].Warning)

	// After the last homebound run, the final section goes empty
	// and the warning disappears with the table.
	sections, err = schedule.Board("Palo Alto → Work", "Work → Palo Alto", clock(23, 0, 0), 4)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Empty(t, sections[2].Departures)
	assert.Empty(t, sections[2].Warning)
	assert.Equal(t, "No buses left today.", sections[2].Empty)
}
