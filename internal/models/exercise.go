package models

import (
	"math"
	"strconv"
	"strings"
)

// ExerciseDef is one template row: an exercise as it appears under a day.
// The exercise name is the identity; an exercise listed under several days
// shares one weight state across all of them.
type ExerciseDef struct {
	Day         string `json:"day"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Sets        string `json:"sets"`
	Reps        string `json:"reps"`
	Weight      string `json:"weight"` // numeric text or a sentinel like "BW"
	Description string `json:"description,omitempty"`
}

// ParseWeight parses a template weight field. Non-numeric sentinels such as
// "BW" yield (0, false); the zero is the override baseline for bodyweight
// exercises, never an error.
func ParseWeight(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatWeight renders a numeric weight the way it is written back into
// template rows, without a trailing ".0" for whole numbers.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
