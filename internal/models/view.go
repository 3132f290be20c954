package models

import "time"

// ViewEntry is one (day, exercise) row of a materialized WorkoutView.
type ViewEntry struct {
	Day             string
	Name            string
	Sets            string
	Reps            string
	EffectiveWeight float64
	WeightLabel     string // raw template weight text, sentinel preserved
	Bodyweight      bool   // true when the template weight is non-numeric
	CompletedToday  bool
	Description     string
}

// WorkoutView is the merged snapshot of templates, weight overrides and
// today's completions. It is derived on demand and never persisted.
type WorkoutView struct {
	GeneratedAt time.Time
	Entries     []ViewEntry
}

// Days returns the distinct day names in entry order.
func (v WorkoutView) Days() []string {
	var days []string
	seen := make(map[string]bool)
	for _, e := range v.Entries {
		if !seen[e.Day] {
			seen[e.Day] = true
			days = append(days, e.Day)
		}
	}
	return days
}

// ForDay returns the entries under one day, in template order.
func (v WorkoutView) ForDay(day string) []ViewEntry {
	var entries []ViewEntry
	for _, e := range v.Entries {
		if e.Day == day {
			entries = append(entries, e)
		}
	}
	return entries
}

// CompletedCount counts entries completed today.
func (v WorkoutView) CompletedCount() int {
	count := 0
	for _, e := range v.Entries {
		if e.CompletedToday {
			count++
		}
	}
	return count
}
