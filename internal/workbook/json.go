package workbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pspon/babod/internal/constants"
	"github.com/pspon/babod/internal/models"
)

type document struct {
	Version   int                             `json:"version"`
	Settings  Settings                        `json:"settings"`
	Days      []string                        `json:"days"`
	Templates map[string][]models.ExerciseDef `json:"templates"`
	Weights   map[string]float64              `json:"weights"`
	Sessions  []models.CompletionEvent        `json:"sessions"`
}

// JSONWorkbook keeps the whole workbook in a single JSON document. Selected
// when the config path ends in .json.
type JSONWorkbook struct {
	path string
	doc  *document
}

func NewJSONWorkbook(path string) *JSONWorkbook {
	return &JSONWorkbook{
		path: path,
	}
}

func (s *JSONWorkbook) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("workbook already initialized at %s", s.path)
	}

	s.doc = &document{
		Version: 1,
		Settings: Settings{
			Timezone:   constants.DefaultTimezone,
			WeightUnit: constants.DefaultWeightUnit,
		},
		Days:      append([]string(nil), constants.DefaultDays...),
		Templates: make(map[string][]models.ExerciseDef),
		Weights:   make(map[string]float64),
	}

	return s.save()
}

func (s *JSONWorkbook) Load() error {
	if s.doc != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("workbook not initialized, run 'babod init' first")
		}
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	s.doc = &document{}
	if err := json.Unmarshal(data, s.doc); err != nil {
		return fmt.Errorf("failed to parse workbook: %w", err)
	}

	// Ensure maps are initialized
	if s.doc.Templates == nil {
		s.doc.Templates = make(map[string][]models.ExerciseDef)
	}
	if s.doc.Weights == nil {
		s.doc.Weights = make(map[string]float64)
	}

	return nil
}

func (s *JSONWorkbook) Close() error {
	return nil
}

func (s *JSONWorkbook) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func (s *JSONWorkbook) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("workbook not loaded")
	}
	return nil
}

func (s *JSONWorkbook) GetSettings() (Settings, error) {
	if err := s.loaded(); err != nil {
		return Settings{}, err
	}
	return s.doc.Settings, nil
}

func (s *JSONWorkbook) SaveSettings(settings Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONWorkbook) Days() ([]string, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return append([]string(nil), s.doc.Days...), nil
}

func (s *JSONWorkbook) ReadTemplate(day string) ([]models.ExerciseDef, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	if !s.hasDay(day) {
		return nil, fmt.Errorf("unknown day: %s", day)
	}
	return append([]models.ExerciseDef(nil), s.doc.Templates[day]...), nil
}

func (s *JSONWorkbook) UpsertTemplateRow(def models.ExerciseDef) error {
	if err := s.loaded(); err != nil {
		return err
	}

	if !s.hasDay(def.Day) {
		s.doc.Days = append(s.doc.Days, def.Day)
	}

	rows := s.doc.Templates[def.Day]
	replaced := false
	for i := range rows {
		if rows[i].Name == def.Name {
			// Keep the existing row's slot in the template order
			def.Position = rows[i].Position
			rows[i] = def
			replaced = true
			break
		}
	}
	if !replaced {
		def.Position = len(rows)
		rows = append(rows, def)
	}
	s.doc.Templates[def.Day] = rows

	return s.save()
}

func (s *JSONWorkbook) UpdateTemplateWeight(exercise, day string, weight float64) (bool, error) {
	if err := s.loaded(); err != nil {
		return false, err
	}

	rows := s.doc.Templates[day]
	for i := range rows {
		if rows[i].Name == exercise {
			rows[i].Weight = models.FormatWeight(weight)
			return true, s.save()
		}
	}
	return false, nil
}

func (s *JSONWorkbook) ReadWeights() (map[string]float64, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	weights := make(map[string]float64, len(s.doc.Weights))
	for name, w := range s.doc.Weights {
		weights[name] = w
	}
	return weights, nil
}

func (s *JSONWorkbook) UpdateWeight(exercise string, weight float64) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Weights[exercise] = weight
	return s.save()
}

func (s *JSONWorkbook) AppendCompletion(event models.CompletionEvent) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Sessions = append(s.doc.Sessions, event)
	return s.save()
}

func (s *JSONWorkbook) ReadCompletions(date string) ([]models.CompletionEvent, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var events []models.CompletionEvent
	for _, ev := range s.doc.Sessions {
		if date == "" || ev.Date() == date {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (s *JSONWorkbook) GetConfigPath() string {
	return s.path
}

func (s *JSONWorkbook) hasDay(day string) bool {
	for _, d := range s.doc.Days {
		if d == day {
			return true
		}
	}
	return false
}
