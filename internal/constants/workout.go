package constants

import "time"

const (
	// DefaultTimezone is the civil timezone that decides what "today" means
	// for completion filtering.
	DefaultTimezone = "America/New_York"

	// DefaultWeightUnit is only used for display; weights are unitless numbers.
	DefaultWeightUnit = "lbs"

	// TimestampLayout is the format of completion log timestamps.
	TimestampLayout = "2006-01-02 15:04:05"

	// DateLayout is the civil-date portion of TimestampLayout.
	DateLayout = "2006-01-02"
)

const (
	// TemplateCacheTTL bounds staleness of cached day templates.
	TemplateCacheTTL = 300 * time.Second

	// CompletionCacheTTL bounds staleness of the cached today-completions set.
	// Shorter than the template TTL since completions change within a session.
	CompletionCacheTTL = 60 * time.Second
)

// DefaultDays are the day templates seeded into a fresh workbook.
var DefaultDays = []string{"Day 1", "Day 2", "Day 3"}
