package window

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyDataSet     = errors.New("empty data set")
	ErrDateArithmetic   = errors.New("date arithmetic failed")
	ErrNotInitialized   = errors.New("navigator not initialized")
	ErrUnknownTimeFrame = errors.New("unknown time frame")
)

const (
	minYear = 1
	maxYear = 9999
)

type TimeFrame string

const (
	Week  TimeFrame = "week"
	Month TimeFrame = "month"
	Year  TimeFrame = "year"
)

func ParseTimeFrame(s string) (TimeFrame, error) {
	switch tf := TimeFrame(strings.ToLower(strings.TrimSpace(s))); tf {
	case Week, Month, Year:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTimeFrame, s)
	}
}

func (tf TimeFrame) Valid() bool {
	return tf == Week || tf == Month || tf == Year
}

// Shift moves t by n units on the calendar. Month and year shifts clamp the
// day to the last valid day of the target month (Mar 31 - 1 month = Feb 29).
func (tf TimeFrame) Shift(t time.Time, n int) (time.Time, error) {
	switch tf {
	case Week:
		return addDays(t, 7*n)
	case Month:
		return addMonthsClamped(t, n)
	case Year:
		return addMonthsClamped(t, 12*n)
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownTimeFrame, string(tf))
	}
}

func addDays(t time.Time, n int) (time.Time, error) {
	res := time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
	if res.Year() < minYear || res.Year() > maxYear {
		return time.Time{}, fmt.Errorf("%w: %s %+d days", ErrDateArithmetic, t.Format(time.DateOnly), n)
	}
	return res, nil
}

func addMonthsClamped(t time.Time, n int) (time.Time, error) {
	total := t.Year()*12 + int(t.Month()) - 1 + n
	year, month := total/12, time.Month(total%12+1)
	if total < 0 || year < minYear || year > maxYear {
		return time.Time{}, fmt.Errorf("%w: %s %+d months", ErrDateArithmetic, t.Format(time.DateOnly), n)
	}

	d := t.Day()
	if last := daysIn(year, month, t.Location()); d > last {
		d = last
	}
	return time.Date(year, month, d, 0, 0, 0, 0, t.Location()), nil
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
