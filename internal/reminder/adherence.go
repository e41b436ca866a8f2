package reminder

import (
	"math"

	"github.com/pathakanu/myMeds/internal/model"
)

// ForDay returns the reminders belonging to day, in insertion order.
func ForDay(reminders []model.Reminder, day string) []model.Reminder {
	var out []model.Reminder
	for _, r := range reminders {
		if r.Date == day {
			out = append(out, r)
		}
	}
	return out
}

// Recompute returns history with the record for day set to the current
// taken/total counts. The record is appended when absent, updated in place
// otherwise; history itself is not modified.
func Recompute(reminders []model.Reminder, history []model.AdherenceRecord, day string) []model.AdherenceRecord {
	todays := ForDay(reminders, day)
	taken := 0
	for _, r := range todays {
		if r.Taken {
			taken++
		}
	}
	record := model.AdherenceRecord{Date: day, Taken: taken, Total: len(todays)}

	out := make([]model.AdherenceRecord, 0, len(history)+1)
	found := false
	for _, h := range history {
		if h.Date == day {
			if found {
				continue
			}
			h = record
			found = true
		}
		out = append(out, h)
	}
	if !found {
		out = append(out, record)
	}
	return out
}

// Summary is the day overview shown above the reminder list.
type Summary struct {
	Taken int    `json:"taken"`
	Total int    `json:"total"`
	Rate  int    `json:"rate"`
	Next  string `json:"next"`
}

// Summarize computes the adherence rate and next untaken medicine for day.
// Next is empty once everything is taken.
func Summarize(reminders []model.Reminder, day string) Summary {
	var s Summary
	for _, r := range ForDay(reminders, day) {
		s.Total++
		if r.Taken {
			s.Taken++
		} else if s.Next == "" {
			s.Next = r.Medicine
		}
	}
	if s.Total > 0 {
		s.Rate = int(math.Round(float64(s.Taken) / float64(s.Total) * 100))
	}
	return s
}
