package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pspon/babod/internal/cli"
	"github.com/pspon/babod/internal/engine"
	"github.com/pspon/babod/internal/workbook"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Workbook file path." type:"path" default:"~/.config/babod/babod.db"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize the babod workbook."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's workout view."`
	Complete cli.CompleteCmd `cmd:"" help:"Mark an exercise complete for today."`
	Log      cli.LogCmd      `cmd:"" help:"Show completions for a day."`
	Weight   struct {
		Set  cli.WeightSetCmd  `cmd:"" help:"Set the target weight for an exercise."`
		List cli.WeightListCmd `cmd:"" help:"List current target weights."`
	} `cmd:"" help:"Manage target weights."`
	Template struct {
		Add  cli.TemplateAddCmd  `cmd:"" help:"Add or replace a template row."`
		List cli.TemplateListCmd `cmd:"" help:"List template rows."`
	} `cmd:"" help:"Manage workout templates."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a workbook backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the workbook from a backup."`
	} `cmd:"" help:"Manage workbook backups."`
	Validate cli.ValidateCmd `cmd:"" help:"Check templates for conflicts."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("babod"),
		kong.Description("Workbook-backed workout tracker with progressive overload"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Determine storage type based on extension
	var store workbook.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = workbook.NewJSONWorkbook(CLI.Config)
	} else {
		store = workbook.NewSQLiteWorkbook(CLI.Config)
	}

	eng := engine.New(store)
	appCtx := &cli.Context{
		Store:   store,
		Engine:  eng,
		Session: eng.NewSession(),
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
