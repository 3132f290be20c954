package models

import "testing"

func TestParseWeight(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		numeric bool
	}{
		{"135", 135, true},
		{"142.5", 142.5, true},
		{" 95 ", 95, true},
		{"0", 0, true},
		{"BW", 0, false},
		{"Bodyweight", 0, false},
		{"", 0, false},
		{"heavy", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
	}

	for _, tt := range tests {
		got, numeric := ParseWeight(tt.raw)
		if got != tt.want || numeric != tt.numeric {
			t.Errorf("ParseWeight(%q) = (%v, %v), want (%v, %v)", tt.raw, got, numeric, tt.want, tt.numeric)
		}
	}
}

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		w    float64
		want string
	}{
		{135, "135"},
		{142.5, "142.5"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := FormatWeight(tt.w); got != tt.want {
			t.Errorf("FormatWeight(%v) = %q, want %q", tt.w, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, w := range []float64{0, 45, 142.5, 303.75} {
		got, numeric := ParseWeight(FormatWeight(w))
		if !numeric || got != w {
			t.Errorf("round trip of %v gave (%v, %v)", w, got, numeric)
		}
	}
}

func TestCompletionEventDate(t *testing.T) {
	ev := CompletionEvent{Timestamp: "2025-06-02 09:15:00"}
	if got := ev.Date(); got != "2025-06-02" {
		t.Errorf("Date() = %q, want 2025-06-02", got)
	}

	short := CompletionEvent{Timestamp: "bad"}
	if got := short.Date(); got != "bad" {
		t.Errorf("Date() on short timestamp = %q, want it unchanged", got)
	}
}

func TestWorkoutViewHelpers(t *testing.T) {
	view := WorkoutView{
		Entries: []ViewEntry{
			{Day: "Day 1", Name: "Squat", CompletedToday: true},
			{Day: "Day 1", Name: "Pull-up"},
			{Day: "Day 2", Name: "Bench", CompletedToday: true},
		},
	}

	days := view.Days()
	if len(days) != 2 || days[0] != "Day 1" || days[1] != "Day 2" {
		t.Errorf("Days() = %v", days)
	}

	day1 := view.ForDay("Day 1")
	if len(day1) != 2 || day1[0].Name != "Squat" {
		t.Errorf("ForDay(Day 1) = %+v", day1)
	}

	if got := view.CompletedCount(); got != 2 {
		t.Errorf("CompletedCount() = %d, want 2", got)
	}
}
