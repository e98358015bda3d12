package utils

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Now is the clock used for "today" computations. Stored timestamps are UTC.
var Now = func() time.Time { return time.Now().UTC() }

// Today returns the current date as YYYY-MM-DD.
func Today() string {
	return Now().Format(DateLayout)
}

// DayBounds returns [start of day, start of next day) for the day containing t, in UTC.
func DayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
