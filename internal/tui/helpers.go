package tui

import (
	"sort"
	"time"

	"github.com/existflow/taskcal/internal/model"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// startOfDay truncates t to midnight in its location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// eventsOn returns the events starting on day, earliest first
func eventsOn(events []model.Event, day time.Time) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if sameDay(ev.Start.In(day.Location()), day) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
