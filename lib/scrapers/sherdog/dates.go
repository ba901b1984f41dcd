package sherdog

import (
	"strconv"
	"strings"
	"time"
)

var compactMonths = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December,
}

// ParseCompactDate parses the listing's fixed-width date token, a
// 3-letter month + 2-digit day + 4-digit year with no separators
// (e.g. "JUL122025" is July 12, 2025). The token is sliced positionally;
// anything that does not fit returns nil.
func ParseCompactDate(token string) *time.Time {
	token = strings.ToUpper(strings.TrimSpace(token))
	if len(token) != 9 {
		return nil
	}

	month, ok := compactMonths[token[0:3]]
	if !ok {
		return nil
	}
	day, err := strconv.Atoi(token[3:5])
	if err != nil || day < 1 || day > 31 {
		return nil
	}
	year, err := strconv.Atoi(token[5:9])
	if err != nil {
		return nil
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &date
}

// ParseRoundTime converts a "M:SS" fight clock into seconds.
func ParseRoundTime(clock string) (int, bool) {
	minutes, seconds, found := strings.Cut(strings.TrimSpace(clock), ":")
	if !found {
		return 0, false
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, false
	}
	s, err := strconv.Atoi(seconds)
	if err != nil || s < 0 || s > 59 {
		return 0, false
	}
	return m*60 + s, true
}
