package models

import "github.com/pspon/babod/internal/constants"

// CompletionEvent is one immutable row of the session log. The weight is a
// snapshot of the value in effect at completion time, not a live reference;
// later weight changes never alter recorded events.
type CompletionEvent struct {
	Timestamp   string  `json:"timestamp"` // constants.TimestampLayout, civil timezone
	Exercise    string  `json:"exercise"`
	Sets        string  `json:"sets"`
	Reps        string  `json:"reps"`
	Weight      float64 `json:"weight"`
	Completed   bool    `json:"completed"`
	Description string  `json:"description,omitempty"`
}

// Date returns the civil-date portion of the event timestamp.
func (e CompletionEvent) Date() string {
	if len(e.Timestamp) < len(constants.DateLayout) {
		return e.Timestamp
	}
	return e.Timestamp[:len(constants.DateLayout)]
}
