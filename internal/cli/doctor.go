package cli

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/pspon/babod/internal/backup"
	"github.com/pspon/babod/internal/migration"
	"github.com/pspon/babod/internal/models"
	"github.com/pspon/babod/internal/validation"
	"github.com/pspon/babod/internal/workbook"
	"github.com/pspon/babod/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: workbook reachable
	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Workbook reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Workbook reachable: OK\n")
		storeReachable = true
	}

	// Check 2: schema version (SQLite workbooks only)
	if err := checkSchemaVersion(ctx); err != nil {
		fmt.Printf("❌ Schema version: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Schema version: OK\n")
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 4: template validation (only if the workbook is reachable)
	if storeReachable {
		if err := checkTemplates(ctx); err != nil {
			fmt.Printf("❌ Template validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Template validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Template validation: SKIPPED (workbook not reachable)\n")
	}

	// Check 5: clock/timezone sanity
	if err := checkClockTimezone(ctx, storeReachable); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.Store.(*workbook.SQLiteWorkbook); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("workbook connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query workbook: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*workbook.SQLiteWorkbook)
	if !ok {
		// JSON workbooks have no schema version
		return nil
	}
	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("workbook not open")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, subFS).ValidateVersion()
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; run 'babod backup create'")
	}
	return nil
}

func checkTemplates(ctx *Context) error {
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

	result := validation.New().ValidateTemplates(templates, days)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s); run 'babod validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *Context, storeReachable bool) error {
	name := ""
	if storeReachable {
		if settings, err := ctx.Store.GetSettings(); err == nil {
			name = settings.Timezone
		}
	}
	if name == "" {
		return fmt.Errorf("no timezone configured")
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("configured timezone %q is invalid: %w", name, err)
	}

	now := time.Now().In(loc)
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
