// internal/domain/dateparse/dateparse.go
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SupportedFormats is shown to operators and moderators when a date string
// is rejected.
const SupportedFormats = `Supported formats:
- DD.MM-DD.MM (e.g. 25.12-31.12) - date range
- DD.MM HH:mm-HH:mm (e.g. 15.03 10:00-18:00) - time range on a specific day
- MONTH_NAME (e.g. January, Styczeń, styczen) - entire month (English or Polish)`

// Window is the validity window extracted from free text. EffectiveAt is the
// instant the content comes into effect, ExpiryAt the end of the window plus
// a one-day grace period. Both are wall-clock values interpreted as UTC.
type Window struct {
	Label       string
	EffectiveAt time.Time
	ExpiryAt    time.Time
}

var (
	dayRangePattern  = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\s*-\s*(\d{1,2})\.(\d{1,2})`)
	timeRangePattern = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\s+(\d{1,2}):(\d{1,2})\s*-\s*(\d{1,2}):(\d{1,2})`)
	monthPattern     = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(january|february|march|april|may|june|july|august|september|october|november|december|styczeń|styczen|luty|marzec|kwiecień|kwiecien|maj|czerwiec|lipiec|sierpień|sierpien|wrzesień|wrzesien|październik|pazdziernik|listopad|grudzień|grudzien)(?:[^\p{L}]|$)`)
)

var months = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
	"styczeń": 1, "styczen": 1,
	"luty":     2,
	"marzec":   3,
	"kwiecień": 4, "kwiecien": 4,
	"maj":      5,
	"czerwiec": 6,
	"lipiec":   7,
	"sierpień": 8, "sierpien": 8,
	"wrzesień": 9, "wrzesien": 9,
	"październik": 10, "pazdziernik": 10,
	"listopad": 11,
	"grudzień": 12, "grudzien": 12,
}

// Canonical display spellings; Polish months always render with diacritics.
var monthDisplayNames = map[string]string{
	"january": "January", "february": "February", "march": "March", "april": "April",
	"may": "May", "june": "June", "july": "July", "august": "August",
	"september": "September", "october": "October", "november": "November", "december": "December",
	"styczeń": "Styczeń", "styczen": "Styczeń",
	"luty":     "Luty",
	"marzec":   "Marzec",
	"kwiecień": "Kwiecień", "kwiecien": "Kwiecień",
	"maj":      "Maj",
	"czerwiec": "Czerwiec",
	"lipiec":   "Lipiec",
	"sierpień": "Sierpień", "sierpien": "Sierpień",
	"wrzesień": "Wrzesień", "wrzesien": "Wrzesień",
	"październik": "Październik", "pazdziernik": "Październik",
	"listopad": "Listopad",
	"grudzień": "Grudzień", "grudzien": "Grudzień",
}

// Parse extracts a validity window from free text. Patterns are tried in a
// fixed order (day range, intraday time range, month name); a pattern that
// matches syntactically but produces an invalid calendar date is rejected and
// the next pattern is tried. Returns false when nothing matches.
//
// The text carries no year, so the year is inferred at parse time: a month M
// with currentMonth > M+6 is assumed to mean next year. The heuristic is kept
// as-is from the original product; do not "fix" boundary months.
func Parse(text string, now time.Time) (Window, bool) {
	if w, ok := parseDayRange(text, now); ok {
		return w, true
	}
	if w, ok := parseTimeRange(text, now); ok {
		return w, true
	}
	if w, ok := parseMonthName(text, now); ok {
		return w, true
	}
	return Window{}, false
}

func inferYear(month int, now time.Time) int {
	if int(now.Month()) > month+6 {
		return now.Year() + 1
	}
	return now.Year()
}

func validDay(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	lastDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
	return day <= lastDay
}

func validClock(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseDayRange(text string, now time.Time) (Window, bool) {
	m := dayRangePattern.FindStringSubmatch(text)
	if m == nil {
		return Window{}, false
	}
	d1, m1, d2, m2 := atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4])

	startYear := inferYear(m1, now)
	endYear := startYear
	if m2 < m1 { // range crosses a year boundary
		endYear = startYear + 1
	}
	if !validDay(startYear, m1, d1) || !validDay(endYear, m2, d2) {
		return Window{}, false
	}

	effective := time.Date(startYear, time.Month(m1), d1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, time.Month(m2), d2, 23, 59, 59, 0, time.UTC)
	return Window{
		Label:       m[0],
		EffectiveAt: effective,
		ExpiryAt:    end.AddDate(0, 0, 1),
	}, true
}

func parseTimeRange(text string, now time.Time) (Window, bool) {
	m := timeRangePattern.FindStringSubmatch(text)
	if m == nil {
		return Window{}, false
	}
	day, month := atoi(m[1]), atoi(m[2])
	h1, min1, h2, min2 := atoi(m[3]), atoi(m[4]), atoi(m[5]), atoi(m[6])

	year := inferYear(month, now)
	if !validDay(year, month, day) || !validClock(h1, min1) || !validClock(h2, min2) {
		return Window{}, false
	}

	effective := time.Date(year, time.Month(month), day, h1, min1, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month), day, h2, min2, 0, 0, time.UTC)
	return Window{
		Label:       m[0],
		EffectiveAt: effective,
		ExpiryAt:    end.AddDate(0, 0, 1),
	}, true
}

func parseMonthName(text string, now time.Time) (Window, bool) {
	m := monthPattern.FindStringSubmatch(text)
	if m == nil {
		return Window{}, false
	}
	key := strings.ToLower(m[1])
	month, ok := months[key]
	if !ok {
		return Window{}, false
	}

	year := inferYear(month, now)
	effective := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Window{
		Label:       monthDisplayNames[key],
		EffectiveAt: effective,
		// Last day of the month plus the one-day grace period, which lands on
		// the first instant of the following month.
		ExpiryAt: effective.AddDate(0, 1, 0),
	}, true
}
