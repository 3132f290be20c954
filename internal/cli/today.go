package cli

import "fmt"

type TodayCmd struct {
	Days []string `arg:"" optional:"" help:"Days to show (defaults to every configured day)."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	days := c.Days
	if len(days) == 0 {
		days = nil
	}

	view, err := ctx.Engine.BuildView(ctx.Session, days)
	if err != nil {
		return err
	}

	unit := ctx.weightUnit()
	fmt.Printf("Workout for %s:\n\n", ctx.Engine.Today())

	if len(view.Entries) == 0 {
		fmt.Println("  No exercises in the template")
		return nil
	}

	for _, day := range view.Days() {
		fmt.Printf("%s:\n", day)
		for _, entry := range view.ForDay(day) {
			mark := " "
			if entry.CompletedToday {
				mark = "✓"
			}
			fmt.Printf("  [%s] %-24s %sx%s  %s\n", mark, entry.Name, entry.Sets, entry.Reps, formatWeight(entry, unit))
			if entry.Description != "" {
				fmt.Printf("       %s\n", entry.Description)
			}
		}
		fmt.Println()
	}

	fmt.Printf("%d of %d exercises completed today\n", view.CompletedCount(), len(view.Entries))
	return nil
}
