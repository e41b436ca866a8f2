package reminder

import (
	"fmt"

	"github.com/pathakanu/myMeds/internal/model"
)

// HoursPerDay is the number of timeline buckets.
const HoursPerDay = 24

// Bucket partitions reminders by the hour of their time. Order within a
// bucket follows the input order. Reminders with an unparseable time are
// left out.
func Bucket(reminders []model.Reminder) [HoursPerDay][]model.Reminder {
	var buckets [HoursPerDay][]model.Reminder
	for _, r := range reminders {
		h, ok := r.Hour()
		if !ok {
			continue
		}
		buckets[h] = append(buckets[h], r)
	}
	return buckets
}

// FormatTime renders an HH:MM time on a 12-hour clock, e.g. "1:05 PM".
// Unparseable input is returned unchanged.
func FormatTime(value string) string {
	h, m, err := model.ParseClock(value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d:%02d %s", twelveHour(h), m, meridiem(h))
}

// HourLabel is the timeline column header for hour h, e.g. "12AM" or "3PM".
func HourLabel(h int) string {
	return fmt.Sprintf("%d%s", twelveHour(h), meridiem(h))
}

func twelveHour(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func meridiem(h int) string {
	if h >= 12 {
		return "PM"
	}
	return "AM"
}
