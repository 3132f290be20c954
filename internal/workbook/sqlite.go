package workbook

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/pspon/babod/internal/constants"
	"github.com/pspon/babod/internal/migration"
	"github.com/pspon/babod/internal/models"
	"github.com/pspon/babod/migrations"
)

type SQLiteWorkbook struct {
	path string
	db   *sql.DB
}

func NewSQLiteWorkbook(path string) *SQLiteWorkbook {
	return &SQLiteWorkbook{
		path: path,
	}
}

func (s *SQLiteWorkbook) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		defaultSettings := Settings{
			Timezone:   constants.DefaultTimezone,
			WeightUnit: constants.DefaultWeightUnit,
		}
		if err := s.SaveSettings(defaultSettings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	// Seed the default day list on a fresh workbook
	days, err := s.Days()
	if err != nil {
		return fmt.Errorf("failed to read day list: %w", err)
	}
	if len(days) == 0 {
		for i, day := range constants.DefaultDays {
			if _, err := s.db.Exec("INSERT INTO days (name, position) VALUES (?, ?)", day, i); err != nil {
				return fmt.Errorf("failed to seed day %q: %w", day, err)
			}
		}
	}

	return nil
}

func (s *SQLiteWorkbook) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("workbook not initialized, run 'babod init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	s.db = db

	// Validate schema version against the embedded migrations
	return s.validateSchemaVersion()
}

func (s *SQLiteWorkbook) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteWorkbook) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

func (s *SQLiteWorkbook) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	return runner.ValidateVersion()
}

func (s *SQLiteWorkbook) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "timezone":
			settings.Timezone = value
		case "weight_unit":
			settings.WeightUnit = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteWorkbook) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("timezone", settings.Timezone); err != nil {
		return err
	}
	if _, err := stmt.Exec("weight_unit", settings.WeightUnit); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteWorkbook) Days() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM days ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		days = append(days, name)
	}
	return days, rows.Err()
}

func (s *SQLiteWorkbook) ReadTemplate(day string) ([]models.ExerciseDef, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM days WHERE name = ?", day).Scan(&count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("unknown day: %s", day)
	}

	rows, err := s.db.Query(`
		SELECT position, exercise, sets, reps, weight, description
		FROM template_rows WHERE day = ? ORDER BY position`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []models.ExerciseDef
	for rows.Next() {
		def := models.ExerciseDef{Day: day}
		if err := rows.Scan(&def.Position, &def.Name, &def.Sets, &def.Reps, &def.Weight, &def.Description); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

func (s *SQLiteWorkbook) UpsertTemplateRow(def models.ExerciseDef) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Register the day if this is its first row
	var dayCount int
	if err := tx.QueryRow("SELECT COUNT(*) FROM days WHERE name = ?", def.Day).Scan(&dayCount); err != nil {
		return err
	}
	if dayCount == 0 {
		var next int
		if err := tx.QueryRow("SELECT COALESCE(MAX(position) + 1, 0) FROM days").Scan(&next); err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT INTO days (name, position) VALUES (?, ?)", def.Day, next); err != nil {
			return err
		}
	}

	// Replacing an existing row keeps its position; a new row appends
	position := def.Position
	var existing int
	err = tx.QueryRow("SELECT position FROM template_rows WHERE day = ? AND exercise = ?", def.Day, def.Name).Scan(&existing)
	switch {
	case err == nil:
		position = existing
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.QueryRow("SELECT COALESCE(MAX(position) + 1, 0) FROM template_rows WHERE day = ?", def.Day).Scan(&position); err != nil {
			return err
		}
	default:
		return err
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO template_rows (day, position, exercise, sets, reps, weight, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		def.Day, position, def.Name, def.Sets, def.Reps, def.Weight, def.Description,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteWorkbook) UpdateTemplateWeight(exercise, day string, weight float64) (bool, error) {
	res, err := s.db.Exec(
		"UPDATE template_rows SET weight = ? WHERE day = ? AND exercise = ?",
		models.FormatWeight(weight), day, exercise,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *SQLiteWorkbook) ReadWeights() (map[string]float64, error) {
	rows, err := s.db.Query("SELECT exercise, weight FROM weights")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var exercise string
		var weight float64
		if err := rows.Scan(&exercise, &weight); err != nil {
			return nil, err
		}
		weights[exercise] = weight
	}
	return weights, rows.Err()
}

func (s *SQLiteWorkbook) UpdateWeight(exercise string, weight float64) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO weights (exercise, weight) VALUES (?, ?)",
		exercise, weight,
	)
	return err
}

func (s *SQLiteWorkbook) AppendCompletion(event models.CompletionEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO session_data (timestamp, exercise, sets, reps, weight, completed, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.Timestamp, event.Exercise, event.Sets, event.Reps,
		models.FormatWeight(event.Weight), event.Completed, event.Description,
	)
	return err
}

func (s *SQLiteWorkbook) ReadCompletions(date string) ([]models.CompletionEvent, error) {
	query := `
		SELECT timestamp, exercise, sets, reps, weight, completed, description
		FROM session_data ORDER BY rowid`
	args := []any{}
	if date != "" {
		query = `
			SELECT timestamp, exercise, sets, reps, weight, completed, description
			FROM session_data WHERE substr(timestamp, 1, 10) = ? ORDER BY rowid`
		args = append(args, date)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.CompletionEvent
	for rows.Next() {
		var ev models.CompletionEvent
		var weight string
		if err := rows.Scan(&ev.Timestamp, &ev.Exercise, &ev.Sets, &ev.Reps, &weight, &ev.Completed, &ev.Description); err != nil {
			return nil, err
		}
		ev.Weight, _ = models.ParseWeight(weight)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteWorkbook) GetConfigPath() string {
	return s.path
}

func (s *SQLiteWorkbook) GetDB() *sql.DB {
	return s.db
}
