// Package validation checks workout templates for conflicts that the engine
// tolerates at runtime but that usually indicate a miskept workbook.
package validation

import (
	"fmt"
	"strings"

	"github.com/pspon/babod/internal/models"
)

type ConflictType string

const (
	// ConflictBlankName flags a template row without an exercise name.
	ConflictBlankName ConflictType = "blank_name"
	// ConflictDuplicateRow flags an exercise listed twice under one day.
	ConflictDuplicateRow ConflictType = "duplicate_row"
	// ConflictWeightMismatch flags one exercise carrying different weight
	// text under different days; an exercise has a single weight state.
	ConflictWeightMismatch ConflictType = "weight_mismatch"
	// ConflictOddWeightText flags weight text that is neither numeric nor a
	// recognized bodyweight sentinel and will be treated as 0.
	ConflictOddWeightText ConflictType = "odd_weight_text"
)

type Conflict struct {
	Type     ConflictType
	Day      string
	Exercise string
	Message  string
}

type ValidationResult struct {
	Conflicts []Conflict
}

func (r ValidationResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r ValidationResult) FormatReport() string {
	if !r.HasConflicts() {
		return "✓ No conflicts found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠ %d conflict(s) found:\n", len(r.Conflicts))
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "  [%s] %s\n", c.Day, c.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// bodyweightSentinels are weight spellings that intentionally do not parse
// as numbers.
var bodyweightSentinels = map[string]bool{
	"bw":         true,
	"bodyweight": true,
	"body":       true,
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateTemplates checks every day's template rows. dayOrder fixes the
// order conflicts are reported in.
func (v *Validator) ValidateTemplates(templates map[string][]models.ExerciseDef, dayOrder []string) ValidationResult {
	var result ValidationResult

	// weightText tracks the first weight text seen per exercise across days
	weightText := make(map[string]string)
	weightDay := make(map[string]string)

	for _, day := range dayOrder {
		seen := make(map[string]bool)
		for _, def := range templates[day] {
			name := strings.TrimSpace(def.Name)
			if name == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:    ConflictBlankName,
					Day:     day,
					Message: fmt.Sprintf("row %d has no exercise name", def.Position+1),
				})
				continue
			}

			if seen[name] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:     ConflictDuplicateRow,
					Day:      day,
					Exercise: name,
					Message:  fmt.Sprintf("%q is listed more than once", name),
				})
			}
			seen[name] = true

			if _, numeric := models.ParseWeight(def.Weight); !numeric {
				if !bodyweightSentinels[strings.ToLower(strings.TrimSpace(def.Weight))] {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:     ConflictOddWeightText,
						Day:      day,
						Exercise: name,
						Message:  fmt.Sprintf("%q has weight %q, which is not a number and will be treated as 0", name, def.Weight),
					})
				}
			}

			if prev, ok := weightText[name]; ok {
				if prev != def.Weight {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:     ConflictWeightMismatch,
						Day:      day,
						Exercise: name,
						Message:  fmt.Sprintf("%q has weight %q here but %q under %s; an exercise has one weight", name, def.Weight, prev, weightDay[name]),
					})
				}
			} else {
				weightText[name] = def.Weight
				weightDay[name] = day
			}
		}
	}

	return result
}
