package costing

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDate = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// ParseLegacyDate reads a free-text receipt date written either as
// YYYY-MM-DD or DD-MM-YYYY. Anything else reports ok == false.
func ParseLegacyDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	var layout string
	switch {
	case isoDate.MatchString(s):
		layout = "2006-01-02"
	case dmyDate.MatchString(s):
		layout = "02-01-2006"
	default:
		return time.Time{}, false
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CivilDate truncates t to midnight UTC of its calendar day.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
