package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congregateapp/congregate/internal/model"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestExpandOccurrencesOneOff(t *testing.T) {
	start := mustTime(t, "2026-09-06T10:00:00Z")
	series := model.EventSeries{StartDatetime: start, Freq: model.RecurrenceNone}

	from := mustTime(t, "2026-09-01T00:00:00Z")
	to := mustTime(t, "2026-10-01T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	require.Len(t, occurrences, 1)
	assert.Equal(t, start, occurrences[0])

	// outside the window
	occurrences = expandOccurrences(series, to, to.AddDate(0, 1, 0))
	assert.Empty(t, occurrences)
}

func TestExpandOccurrencesWeekly(t *testing.T) {
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2026-09-06T10:00:00Z"),
		Freq:          model.RecurrenceWeekly,
		Interval:      1,
	}

	from := mustTime(t, "2026-09-01T00:00:00Z")
	to := mustTime(t, "2026-09-29T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	require.Len(t, occurrences, 4)
	assert.Equal(t, mustTime(t, "2026-09-06T10:00:00Z"), occurrences[0])
	assert.Equal(t, mustTime(t, "2026-09-13T10:00:00Z"), occurrences[1])
	assert.Equal(t, mustTime(t, "2026-09-20T10:00:00Z"), occurrences[2])
	assert.Equal(t, mustTime(t, "2026-09-27T10:00:00Z"), occurrences[3])
}

func TestExpandOccurrencesBiweeklyInterval(t *testing.T) {
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2026-09-06T10:00:00Z"),
		Freq:          model.RecurrenceWeekly,
		Interval:      2,
	}

	from := mustTime(t, "2026-09-01T00:00:00Z")
	to := mustTime(t, "2026-10-06T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	require.Len(t, occurrences, 3)
	assert.Equal(t, mustTime(t, "2026-09-20T10:00:00Z"), occurrences[1])
	assert.Equal(t, mustTime(t, "2026-10-04T10:00:00Z"), occurrences[2])
}

func TestExpandOccurrencesHonorsUntil(t *testing.T) {
	until := mustTime(t, "2026-09-14T00:00:00Z")
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2026-09-06T10:00:00Z"),
		Freq:          model.RecurrenceDaily,
		Interval:      1,
		Until:         &until,
	}

	from := mustTime(t, "2026-09-01T00:00:00Z")
	to := mustTime(t, "2026-10-01T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	require.Len(t, occurrences, 8)
	assert.Equal(t, mustTime(t, "2026-09-13T10:00:00Z"), occurrences[len(occurrences)-1])
}

func TestExpandOccurrencesMonthly(t *testing.T) {
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2026-01-31T10:00:00Z"),
		Freq:          model.RecurrenceMonthly,
		Interval:      1,
	}

	from := mustTime(t, "2026-01-01T00:00:00Z")
	to := mustTime(t, "2026-04-01T00:00:00Z")

	// AddDate normalizes Jan 31 + 1 month to Mar 3 (or Mar 2 on leap
	// years), so month-end series drift instead of clamping.
	occurrences := expandOccurrences(series, from, to)
	require.NotEmpty(t, occurrences)
	assert.Equal(t, mustTime(t, "2026-01-31T10:00:00Z"), occurrences[0])
}

func TestExpandOccurrencesWindowSkipsPast(t *testing.T) {
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2026-01-04T09:00:00Z"),
		Freq:          model.RecurrenceWeekly,
		Interval:      1,
	}

	from := mustTime(t, "2026-03-01T00:00:00Z")
	to := mustTime(t, "2026-03-15T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	for _, occurrence := range occurrences {
		assert.False(t, occurrence.Before(from))
		assert.True(t, occurrence.Before(to))
	}
	assert.Len(t, occurrences, 2)
}

func TestExpandOccurrencesLongLivedSeriesFillsWindow(t *testing.T) {
	// A series much older than the cap worth of occurrences must still
	// produce the rolling window in full.
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2024-01-01T09:00:00Z"),
		Freq:          model.RecurrenceDaily,
		Interval:      1,
	}

	from := mustTime(t, "2026-08-31T00:00:00Z")
	to := mustTime(t, "2026-11-29T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	require.Len(t, occurrences, 90)
	assert.Equal(t, mustTime(t, "2026-08-31T09:00:00Z"), occurrences[0])
	for _, occurrence := range occurrences {
		assert.False(t, occurrence.Before(from))
		assert.True(t, occurrence.Before(to))
	}
}

func TestExpandOccurrencesLongLivedWeeklyKeepsAlignment(t *testing.T) {
	start := mustTime(t, "2020-02-03T18:00:00Z")
	series := model.EventSeries{
		StartDatetime: start,
		Freq:          model.RecurrenceWeekly,
		Interval:      2,
	}

	from := mustTime(t, "2026-08-31T00:00:00Z")
	to := mustTime(t, "2026-11-29T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	require.NotEmpty(t, occurrences)
	for _, occurrence := range occurrences {
		assert.False(t, occurrence.Before(from))
		assert.True(t, occurrence.Before(to))
		// every occurrence stays on the original 14 day grid
		assert.Zero(t, occurrence.Sub(start)%(14*24*time.Hour))
	}
}

func TestExpandOccurrencesLongLivedMonthly(t *testing.T) {
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2020-01-15T10:00:00Z"),
		Freq:          model.RecurrenceMonthly,
		Interval:      1,
	}

	from := mustTime(t, "2026-08-31T00:00:00Z")
	to := mustTime(t, "2026-11-29T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	require.Len(t, occurrences, 3)
	assert.Equal(t, mustTime(t, "2026-09-15T10:00:00Z"), occurrences[0])
	assert.Equal(t, mustTime(t, "2026-10-15T10:00:00Z"), occurrences[1])
	assert.Equal(t, mustTime(t, "2026-11-15T10:00:00Z"), occurrences[2])
}

func TestExpandOccurrencesCapped(t *testing.T) {
	series := model.EventSeries{
		StartDatetime: mustTime(t, "2000-01-01T00:00:00Z"),
		Freq:          model.RecurrenceDaily,
		Interval:      1,
	}

	from := mustTime(t, "2000-01-01T00:00:00Z")
	to := mustTime(t, "2030-01-01T00:00:00Z")

	occurrences := expandOccurrences(series, from, to)
	assert.LessOrEqual(t, len(occurrences), maxOccurrences)
}
