package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayKeyLayout formats a calendar day the way the browser dashboard did
// ("Fri Oct 16 2026"), so stored data from either side stays comparable.
const DayKeyLayout = "Mon Jan 02 2006"

// ErrInvalidClock is returned when a time-of-day is not HH:MM (24-hour).
var ErrInvalidClock = errors.New("time must be HH:MM")

// Reminder is a single scheduled medicine-taking event for one calendar day.
type Reminder struct {
	ID        int64  `json:"id"`
	Medicine  string `json:"medicine"`
	Time      string `json:"time"`
	Recurring bool   `json:"recurring"`
	Taken     bool   `json:"taken"`
	Date      string `json:"date"`
}

// Hour returns the hour component of the reminder's time.
func (r Reminder) Hour() (int, bool) {
	h, _, err := ParseClock(r.Time)
	if err != nil {
		return 0, false
	}
	return h, true
}

// DueAt combines the reminder's time of day with the calendar day of now.
func (r Reminder) DueAt(now time.Time) (time.Time, error) {
	h, m, err := ParseClock(r.Time)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := now.Date()
	return time.Date(y, mo, d, h, m, 0, 0, now.Location()), nil
}

// AdherenceRecord is the daily rollup of scheduled vs. taken reminders.
type AdherenceRecord struct {
	Date  string `json:"date"`
	Taken int    `json:"taken"`
	Total int    `json:"total"`
}

// DayKey returns the key identifying t's calendar day.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseClock splits an HH:MM string into hour and minute.
func ParseClock(value string) (int, int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return h, m, nil
}

func digits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
