package scheduling

import (
	"errors"
	"time"
)

// Wire formats for appointment dates and times of day.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM")
	ErrInvalidWindow    = errors.New("closing time must be after opening time")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

// ParseDate parses a calendar date in the wire format.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// ParseTimeOfDay parses a wall-clock time in the wire format.
func ParseTimeOfDay(timeOfDay string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, timeOfDay)
	if err != nil {
		return time.Time{}, ErrInvalidTimeOfDay
	}
	return t, nil
}

// CombineDateTime builds the single instant an appointment occurs at from
// its calendar date and wall-clock time, in the service's location.
func CombineDateTime(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// IsPastDue reports whether the appointment instant is before now.
func IsPastDue(date, timeOfDay string, loc *time.Location, now time.Time) (bool, error) {
	at, err := CombineDateTime(date, timeOfDay, loc)
	if err != nil {
		return false, err
	}
	return at.Before(now), nil
}

// CanBeCancelled reports whether the appointment is still further away than
// the cancellation window. Purely a predicate over timestamps: moving now
// closer to the appointment can only flip it from true to false.
func CanBeCancelled(date, timeOfDay string, loc *time.Location, now time.Time, window time.Duration) (bool, error) {
	at, err := CombineDateTime(date, timeOfDay, loc)
	if err != nil {
		return false, err
	}
	return at.Sub(now) > window, nil
}

// EnumerateSlots lists candidate slot start times between opening
// (inclusive) and closing (exclusive) at the given granularity, in
// ascending order. With 09:00-17:00 and 30 minutes the last candidate is
// 16:30.
func EnumerateSlots(opening, closing string, step time.Duration) ([]string, error) {
	if step <= 0 {
		return nil, ErrSlotDuration
	}
	open, err := ParseTimeOfDay(opening)
	if err != nil {
		return nil, err
	}
	close, err := ParseTimeOfDay(closing)
	if err != nil {
		return nil, err
	}
	if !close.After(open) {
		return nil, ErrInvalidWindow
	}

	var slots []string
	for t := open; t.Before(close); t = t.Add(step) {
		slots = append(slots, t.Format(TimeLayout))
	}
	return slots, nil
}
