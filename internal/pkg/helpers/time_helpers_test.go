package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	ist, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	tests := []struct {
		name      string
		at        time.Time
		loc       *time.Location
		wantStart string
	}{
		{"utc morning", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), time.UTC, "2025-03-10T00:00:00Z"},
		{"utc late night", time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), time.UTC, "2025-03-10T00:00:00Z"},
		{"crosses into next local day", time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC), ist, "2025-03-11T00:00:00+03:00"},
		{"nil location is utc", time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC), nil, "2025-03-10T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DayWindow(tt.at, tt.loc)
			assert.Equal(t, tt.wantStart, start.Format(time.RFC3339))
			assert.Equal(t, 24*time.Hour, end.Sub(start))
			assert.False(t, tt.at.Before(start))
			assert.True(t, tt.at.Before(end))
		})
	}
}

func TestDayWindow_DST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start, end := DayWindow(time.Date(2025, 3, 9, 12, 0, 0, 0, ny), ny)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestLastNDays(t *testing.T) {
	now := time.Date(2025, 3, 2, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, LastNDays(now, 4, time.UTC))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2010-05-04")
	require.NoError(t, err)
	assert.Equal(t, 2010, d.Year())

	_, err = ParseDate("2025-03-10T10:00:00Z")
	require.NoError(t, err)

	_, err = ParseDate("04/05/2010")
	assert.Error(t, err)
}

func TestParseDateIn(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*3600)

	got, err := ParseDateIn("2025-03-10", zone)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-10", DayKey(got, zone))

	got, err = ParseDateIn("2025-03-10T10:00:00Z", zone)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)))

	got, err = ParseDateIn("2025-03-10", nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
}
