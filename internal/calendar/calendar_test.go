package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2026, 1, 31},
		{2026, 2, 28},
		{2024, 2, 29},
		{2000, 2, 29},
		{1900, 2, 28},
		{2026, 4, 30},
		{2026, 12, 31},
	}
	for _, tc := range cases {
		got, err := LastDayOfMonth(tc.year, tc.month)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "last day of %d-%02d", tc.year, tc.month)
	}
}

func TestLastDayOfMonthInvalid(t *testing.T) {
	_, err := LastDayOfMonth(2026, 0)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = LastDayOfMonth(2026, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestClampDayNeverExceedsMonth(t *testing.T) {
	for month := 1; month <= 12; month++ {
		last, err := LastDayOfMonth(2026, month)
		require.NoError(t, err)
		for day := 1; day <= 31; day++ {
			got, err := ClampDay(day, 2026, month)
			require.NoError(t, err)
			assert.LessOrEqual(t, got, last)
			if day <= last {
				assert.Equal(t, day, got)
			}
		}
	}
}

func TestAddMonthsClamps(t *testing.T) {
	jan31 := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), AddMonths(jan31, 1))

	jan31leap := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), AddMonths(jan31leap, 1))

	nov30 := time.Date(2026, time.November, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, time.February, 28, 0, 0, 0, 0, time.UTC), AddMonths(nov30, 3))

	dec15 := time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC), AddMonths(dec15, 1))
}

func TestAddYearsLeapDay(t *testing.T) {
	feb29 := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), AddYears(feb29, 1))
	assert.Equal(t, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC), AddYears(feb29, 4))
}

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("X", -5*3600)
	ts := time.Date(2026, time.March, 10, 23, 30, 0, 0, loc)
	got := Midnight(ts)
	assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, got, Midnight(got))
}
