package utils

import (
	"fmt"
	"time"
)

// Reminder times are stored as "HH:MM" 24-hour strings. FormatClock and
// ParseClock must round-trip exactly for every minute of the day.

func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}
