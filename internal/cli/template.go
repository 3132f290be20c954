package cli

import (
	"fmt"
	"strings"

	"github.com/pspon/babod/internal/models"
)

type TemplateAddCmd struct {
	Day         string `arg:"" help:"Day to add the exercise under (e.g. \"Day 1\")."`
	Name        string `arg:"" help:"Exercise name."`
	Sets        string `short:"s" help:"Number of sets." default:"3"`
	Reps        string `short:"r" help:"Reps per set." default:"10"`
	Weight      string `short:"w" help:"Starting weight (number or \"BW\")." default:"BW"`
	Description string `short:"d" help:"Free-form notes."`
}

func (c *TemplateAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("exercise name must not be blank")
	}
	return nil
}

func (c *TemplateAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	def := models.ExerciseDef{
		Day:         c.Day,
		Name:        c.Name,
		Sets:        c.Sets,
		Reps:        c.Reps,
		Weight:      c.Weight,
		Description: c.Description,
	}

	if err := ctx.Store.UpsertTemplateRow(def); err != nil {
		return err
	}

	fmt.Printf("Added %s to %s (%sx%s at %s)\n", c.Name, c.Day, c.Sets, c.Reps, c.Weight)
	return nil
}

type TemplateListCmd struct {
	Day string `arg:"" optional:"" help:"Day to list (defaults to every day)."`
}

func (c *TemplateListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	days := []string{c.Day}
	if c.Day == "" {
		configured, err := ctx.Store.Days()
		if err != nil {
			return err
		}
		days = configured
	}

	for _, day := range days {
		defs, err := ctx.Store.ReadTemplate(day)
		if err != nil {
			return err
		}

		fmt.Printf("%s:\n", day)
		if len(defs) == 0 {
			fmt.Println("  (empty)")
		}
		for _, def := range defs {
			fmt.Printf("  %-24s %sx%s  %s\n", def.Name, def.Sets, def.Reps, def.Weight)
			if def.Description != "" {
				fmt.Printf("      %s\n", def.Description)
			}
		}
		fmt.Println()
	}
	return nil
}
