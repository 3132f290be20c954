package workbook

import "github.com/pspon/babod/internal/models"

// Settings are the workbook-level preferences.
type Settings struct {
	Timezone   string `json:"timezone"`
	WeightUnit string `json:"weight_unit"`
}

// Provider is the backing-store contract: one logical workbook with a
// template table per day, a weights table, and an append-only session log.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Templates
	Days() ([]string, error)
	ReadTemplate(day string) ([]models.ExerciseDef, error)
	UpsertTemplateRow(def models.ExerciseDef) error
	// UpdateTemplateWeight overwrites the weight field of the row for
	// exercise under day. It returns false when the exercise is not listed
	// under that day, which is not an error.
	UpdateTemplateWeight(exercise, day string, weight float64) (bool, error)

	// Weight overrides
	ReadWeights() (map[string]float64, error)
	UpdateWeight(exercise string, weight float64) error

	// Completion log. AppendCompletion is append-only; rows are never
	// updated or deleted. ReadCompletions filters by civil date; an empty
	// date returns the full log in append order.
	AppendCompletion(event models.CompletionEvent) error
	ReadCompletions(date string) ([]models.CompletionEvent, error)

	// Utils
	GetConfigPath() string
}
