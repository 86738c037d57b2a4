package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestParseDayRange(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	w, ok := Parse("Grafika ważna 25.12-31.12 !", now)
	require.True(t, ok)
	assert.Equal(t, "25.12-31.12", w.Label)
	assert.Equal(t, date(2025, time.December, 25, 0, 0, 0), w.EffectiveAt)
	// end of the last day plus the one-day grace period
	assert.Equal(t, date(2026, time.January, 1, 23, 59, 59), w.ExpiryAt)
}

func TestParseDayRangeWithSpacesAroundDash(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	w, ok := Parse("01.07 - 15.07", now)
	require.True(t, ok)
	assert.Equal(t, "01.07 - 15.07", w.Label)
	assert.Equal(t, date(2025, time.July, 1, 0, 0, 0), w.EffectiveAt)
	assert.Equal(t, date(2025, time.July, 16, 23, 59, 59), w.ExpiryAt)
}

func TestParseDayRangeCrossesYearBoundary(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	w, ok := Parse("28.12-03.01", now)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 28, 0, 0, 0), w.EffectiveAt)
	assert.Equal(t, date(2026, time.January, 4, 23, 59, 59), w.ExpiryAt)
}

func TestParseTimeRange(t *testing.T) {
	now := date(2025, time.January, 5, 12, 0, 0)

	w, ok := Parse("Koncert 15.03 10:00-18:00", now)
	require.True(t, ok)
	assert.Equal(t, "15.03 10:00-18:00", w.Label)
	assert.Equal(t, date(2025, time.March, 15, 10, 0, 0), w.EffectiveAt)
	// end of the window plus the one-day grace period
	assert.Equal(t, date(2025, time.March, 16, 18, 0, 0), w.ExpiryAt)
}

func TestParseTimeRangeWithSpacesAroundDash(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	w, ok := Parse("04.10 14:00 - 17:00", now)
	require.True(t, ok)
	assert.Equal(t, "04.10 14:00 - 17:00", w.Label, "the label keeps the author's spacing")
	assert.Equal(t, date(2025, time.October, 4, 14, 0, 0), w.EffectiveAt)
	assert.Equal(t, date(2025, time.October, 5, 17, 0, 0), w.ExpiryAt)
}

func TestParseMonthName(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	cases := []struct {
		text  string
		label string
		month time.Month
		year  int
	}{
		{"styczeń", "Styczeń", time.January, 2025},
		{"styczen", "Styczeń", time.January, 2025}, // ASCII fold accepted
		{"STYCZEŃ!", "Styczeń", time.January, 2025},
		{"january", "January", time.January, 2025},
		{"Grafika na Wrzesień", "Wrzesień", time.September, 2025},
		{"pazdziernik", "Październik", time.October, 2025},
		{"December specials", "December", time.December, 2025},
	}
	for _, tc := range cases {
		w, ok := Parse(tc.text, now)
		require.True(t, ok, "text %q", tc.text)
		assert.Equal(t, tc.label, w.Label, "text %q", tc.text)
		assert.Equal(t, date(tc.year, tc.month, 1, 0, 0, 0), w.EffectiveAt, "text %q", tc.text)
		// whole month: expires at the first instant of the following month
		assert.Equal(t, date(tc.year, tc.month, 1, 0, 0, 0).AddDate(0, 1, 0), w.ExpiryAt, "text %q", tc.text)
	}
}

func TestParseMonthNameInsideWordIsNotAMatch(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	_, ok := Parse("od maja do czerwca", now) // "maja" is not "maj"
	assert.False(t, ok)
}

func TestYearInference(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		text string
		want time.Time
	}{
		{
			// month more than six months behind rolls to next year
			name: "january seen in august",
			now:  date(2025, time.August, 15, 0, 0, 0),
			text: "styczeń",
			want: date(2026, time.January, 1, 0, 0, 0),
		},
		{
			// exactly six months behind stays in the current year
			name: "january seen in july",
			now:  date(2025, time.July, 15, 0, 0, 0),
			text: "styczeń",
			want: date(2025, time.January, 1, 0, 0, 0),
		},
		{
			name: "february seen in september",
			now:  date(2025, time.September, 1, 0, 0, 0),
			text: "10.02-20.02",
			want: date(2026, time.February, 10, 0, 0, 0),
		},
		{
			name: "december never rolls",
			now:  date(2025, time.December, 31, 0, 0, 0),
			text: "grudzień",
			want: date(2025, time.December, 1, 0, 0, 0),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := Parse(tc.text, tc.now)
			require.True(t, ok)
			assert.Equal(t, tc.want, w.EffectiveAt)
		})
	}
}

func TestParseRejectsInvalidCalendarValues(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	for _, text := range []string{
		"32.01-05.01",       // day out of range
		"15.13-20.13",       // month out of range
		"31.04-05.05",       // April has 30 days
		"29.02-01.03",       // 2025 is not a leap year
		"15.03 25:00-26:00", // invalid clock
		"15.03 10:60-11:00", // invalid minutes
	} {
		_, ok := Parse(text, now)
		assert.False(t, ok, "text %q", text)
	}
}

func TestParseLeapDayInLeapYear(t *testing.T) {
	now := date(2024, time.January, 10, 0, 0, 0)

	w, ok := Parse("29.02-01.03", now)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.February, 29, 0, 0, 0), w.EffectiveAt)
}

func TestParseFallsThroughToNextPattern(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	// The day-range pattern matches syntactically but carries an invalid
	// month, so the month-name pattern gets its turn.
	w, ok := Parse("15.13-20.13 styczeń", now)
	require.True(t, ok)
	assert.Equal(t, "Styczeń", w.Label)
}

func TestParsePatternPriority(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	// A valid day range beats a month name present in the same text.
	w, ok := Parse("25.12-31.12 grudzień", now)
	require.True(t, ok)
	assert.Equal(t, "25.12-31.12", w.Label)
}

func TestParseNoMatch(t *testing.T) {
	now := date(2025, time.June, 10, 12, 0, 0)

	for _, text := range []string{
		"",
		"hello world",
		"25.12",       // lone date, no range
		"10:00-18:00", // times without a date
	} {
		_, ok := Parse(text, now)
		assert.False(t, ok, "text %q", text)
	}
}
