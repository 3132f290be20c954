package cli

import (
	"fmt"

	"github.com/pspon/babod/internal/models"
	"github.com/pspon/babod/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}
	defer ctx.Store.Close()

	days, err := ctx.Store.Days()
	if err != nil {
		return fmt.Errorf("failed to read day list: %w", err)
	}

	templates := make(map[string][]models.ExerciseDef, len(days))
	for _, day := range days {
		defs, err := ctx.Store.ReadTemplate(day)
		if err != nil {
			return fmt.Errorf("failed to read template for %s: %w", day, err)
		}
		templates[day] = defs
	}

	fmt.Println("Validating templates...")
	result := validation.New().ValidateTemplates(templates, days)

	fmt.Println()
	fmt.Println(result.FormatReport())

	return nil
}
