package cli

import (
	"fmt"

	"github.com/pspon/babod/internal/models"
)

type CompleteCmd struct {
	Day      string `arg:"" help:"Day the exercise is listed under (e.g. \"Day 1\")."`
	Exercise string `arg:"" help:"Exercise name as it appears in the template."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	event, err := ctx.Engine.Complete(ctx.Session, c.Day, c.Exercise)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Completed %s (%sx%s at %s %s) at %s\n",
		event.Exercise, event.Sets, event.Reps,
		models.FormatWeight(event.Weight), ctx.weightUnit(), event.Timestamp)
	return nil
}
