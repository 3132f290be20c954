package cli

import (
	"fmt"
	"time"

	"github.com/pspon/babod/internal/constants"
	"github.com/pspon/babod/internal/engine"
	"github.com/pspon/babod/internal/models"
	"github.com/pspon/babod/internal/workbook"
)

type Context struct {
	Store   workbook.Provider
	Engine  *engine.Engine
	Session *engine.Session
}

// weightUnit returns the configured display unit, defaulting when settings
// cannot be read (commands that only render should not fail over a label).
func (ctx *Context) weightUnit() string {
	settings, err := ctx.Store.GetSettings()
	if err != nil || settings.WeightUnit == "" {
		return constants.DefaultWeightUnit
	}
	return settings.WeightUnit
}

// resolveDate maps "today" to the engine's civil date and validates any
// explicit date argument.
func resolveDate(ctx *Context, arg string) (string, error) {
	if arg == "" || arg == "today" {
		return ctx.Engine.Today(), nil
	}
	if _, err := time.Parse(constants.DateLayout, arg); err != nil {
		return "", fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}
	return arg, nil
}

// formatWeight renders an entry's weight: the raw sentinel for bodyweight
// exercises that were never overloaded, the numeric value otherwise.
func formatWeight(entry models.ViewEntry, unit string) string {
	if entry.Bodyweight && entry.EffectiveWeight == 0 {
		return entry.WeightLabel
	}
	return fmt.Sprintf("%s %s", models.FormatWeight(entry.EffectiveWeight), unit)
}
