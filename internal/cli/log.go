package cli

import (
	"fmt"

	"github.com/pspon/babod/internal/models"
)

type LogCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *LogCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := resolveDate(ctx, c.Date)
	if err != nil {
		return err
	}

	events, err := ctx.Engine.CompletionsOn(date)
	if err != nil {
		return err
	}

	fmt.Printf("Completions for %s:\n\n", date)

	if len(events) == 0 {
		fmt.Println("  No exercises completed")
		return nil
	}

	unit := ctx.weightUnit()
	for _, ev := range events {
		fmt.Printf("  %s  %-24s %sx%s  %s %s\n",
			ev.Timestamp, ev.Exercise, ev.Sets, ev.Reps, models.FormatWeight(ev.Weight), unit)
	}
	return nil
}
