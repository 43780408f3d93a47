package booking

import (
	"fmt"
	"regexp"
	"time"
)

// Accepted time-of-day shapes. Exactly four digits ("0930") or
// colon-separated with leading zeros ("09:30"); nothing else.
var (
	hhmmPattern      = regexp.MustCompile(`^\d{4}$`)
	hhmmColonPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ParseTimeOfDay parses free-text time input into minutes from
// midnight. Out-of-range values such as "2500" fail the same way as
// garbage input, with ErrInvalidTimeFormat.
func ParseTimeOfDay(text string) (int, error) {
	var layout string
	switch {
	case hhmmPattern.MatchString(text):
		layout = "1504"
	case hhmmColonPattern.MatchString(text):
		layout = "15:04"
	default:
		return 0, ErrInvalidTimeFormat
	}
	t, err := time.Parse(layout, text)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateOrder fails when end is not strictly after start.
func ValidateOrder(start, end int) error {
	if end <= start {
		return ErrEndNotAfterStart
	}
	return nil
}

// FormatTimeOfDay renders minutes from midnight as "HH:MM".
func FormatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
