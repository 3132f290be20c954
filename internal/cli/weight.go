package cli

import (
	"fmt"
	"sort"

	"github.com/pspon/babod/internal/models"
)

type WeightSetCmd struct {
	Exercise string  `arg:"" help:"Exercise name."`
	Weight   float64 `arg:"" help:"New target weight (non-negative)."`
}

func (c *WeightSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Engine.SetWeight(ctx.Session, c.Exercise, c.Weight); err != nil {
		return err
	}

	fmt.Printf("Set %s to %s %s\n", c.Exercise, models.FormatWeight(c.Weight), ctx.weightUnit())
	return nil
}

type WeightListCmd struct{}

func (c *WeightListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	weights, err := ctx.Store.ReadWeights()
	if err != nil {
		return fmt.Errorf("failed to read weights: %w", err)
	}

	if len(weights) == 0 {
		fmt.Println("No weights tracked yet; they are seeded on the first view.")
		return nil
	}

	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	unit := ctx.weightUnit()
	for _, name := range names {
		fmt.Printf("  %-24s %s %s\n", name, models.FormatWeight(weights[name]), unit)
	}
	return nil
}
