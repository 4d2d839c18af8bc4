package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busboard.dev/busboard/model"
	"busboard.dev/busboard/storage"
)

func TestParseDepartureTime(t *testing.T) {
	for _, tc := range []struct {
		name   string
		input  string
		err    bool
		output string
	}{
		{"plain", "08:15:00", false, "081500"},
		{"date_prefix", "2024-03-01 08:15:00", false, "081500"},
		{"arbitrary_prefix", "xyzzy17:45:30", false, "174530"},
		{"midnight", "00:00:00", false, "000000"},
		{"end_of_day", "23:59:59", false, "235959"},
		{"too_short", "8:15:00", true, ""},
		{"bad_hour", "24:00:00", true, ""},
		{"bad_minute", "08:60:00", true, ""},
		{"bad_second", "08:00:60", true, ""},
		{"non_integer", "08:xx:00", true, ""},
		{"wrong_shape", "08-15-00", true, ""},
		{"empty", "", true, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDepartureTime(tc.input)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.output, got)
		})
	}
}

func TestParseSchedule(t *testing.T) {
	for _, tc := range []struct {
		name     string
		content  string
		err      bool
		rows     []*model.Row
		rowCount int
		minDep   string
		maxDep   string
	}{
		{
			"minimal",
			`Route,Departure Time
Palo Alto → Work,08:00:00`,
			false,
			[]*model.Row{
				{Route: "Palo Alto → Work", Departure: "080000"},
			},
			1, "080000", "080000",
		},

		{
			"multiple_routes_and_prefixes",
			`Route,Departure Time
Palo Alto → Work,2024-03-01 08:00:00
Work → Palo Alto,17:30:00
Palo Alto → Work,09:15:00`,
			false,
			[]*model.Row{
				{Route: "Palo Alto → Work", Departure: "080000"},
				{Route: "Work → Palo Alto", Departure: "173000"},
				{Route: "Palo Alto → Work", Departure: "091500"},
			},
			3, "080000", "173000",
		},

		{
			"header_only",
			`Route,Departure Time`,
			false,
			[]*model.Row{},
			0, "", "",
		},

		{
			"malformed_time_fails_whole_load",
			`Route,Departure Time
Palo Alto → Work,08:00:00
Work → Palo Alto,25:00:00`,
			true, nil, 0, "", "",
		},

		{
			"missing_route",
			`Route,Departure Time
,08:00:00`,
			true, nil, 0, "", "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := storage.NewMemoryStorage()
			writer, err := s.GetWriter("test")
			require.NoError(t, err)

			metadata, err := ParseSchedule(writer, []byte(tc.content))
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tc.rowCount, metadata.RowCount)
			assert.Equal(t, tc.minDep, metadata.MinDeparture)
			assert.Equal(t, tc.maxDep, metadata.MaxDeparture)

			reader, err := s.GetReader("test")
			require.NoError(t, err)
			rows, err := reader.Rows()
			require.NoError(t, err)
			assert.Equal(t, tc.rows, rows)
		})
	}
}

func TestParseScheduleBOM(t *testing.T) {
	s := storage.NewMemoryStorage()
	writer, err := s.GetWriter("test")
	require.NoError(t, err)

	content := "\xef\xbb\xbfRoute,Departure Time\nPalo Alto → Work,08:00:00"
	metadata, err := ParseSchedule(writer, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, 1, metadata.RowCount)
}
