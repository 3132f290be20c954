package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// MaxBackups is the number of backups kept after rotation.
	MaxBackups = 14
	// BackupDirName is the directory, next to the workbook, holding backups.
	BackupDirName = "backups"
	// BackupFilePrefix is the prefix of every backup filename.
	BackupFilePrefix = "babod-"

	timestampFormat = "20060102-150405"
)

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates, and restores workbook backups. SQLite
// workbooks are copied via VACUUM INTO; JSON workbooks (and any fallback)
// via a plain file copy.
type Manager struct {
	workbookPath string
	backupDir    string
}

func NewManager(workbookPath string) *Manager {
	return &Manager{
		workbookPath: workbookPath,
		backupDir:    filepath.Join(filepath.Dir(workbookPath), BackupDirName),
	}
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// suffix is the workbook file extension, carried onto backup files.
func (m *Manager) suffix() string {
	if ext := filepath.Ext(m.workbookPath); ext != "" {
		return ext
	}
	return ".db"
}

// CreateBackup writes a timestamped copy of the workbook and rotates old
// backups past the retention limit.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(m.workbookPath); os.IsNotExist(err) {
		return "", fmt.Errorf("workbook does not exist: %s", m.workbookPath)
	}

	name := fmt.Sprintf("%s%s%s", BackupFilePrefix, time.Now().Format(timestampFormat), m.suffix())
	backupPath := filepath.Join(m.backupDir, name)

	if err := m.copyWorkbook(backupPath); err != nil {
		return "", fmt.Errorf("failed to back up workbook: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// A failed rotation should not fail the backup itself
			fmt.Fprintf(os.Stderr, "Warning: failed to rotate old backups: %v\n", err)
		}
	}

	return backupPath, nil
}

func (m *Manager) copyWorkbook(destPath string) error {
	if m.suffix() == ".json" {
		return copyFile(m.workbookPath, destPath)
	}

	srcDB, err := sql.Open("sqlite", m.workbookPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source workbook: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source workbook appears to be corrupted: %w", err)
	}

	// VACUUM INTO produces a clean copy even while the database is open;
	// fall back to a file copy if the SQLite build doesn't support it.
	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		srcDB.Close()
		return copyFile(m.workbookPath, destPath)
	}

	return nil
}

// ListBackups returns every backup, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, BackupFilePrefix) || !strings.HasSuffix(name, m.suffix()) {
			continue
		}

		timestampStr := strings.TrimSuffix(strings.TrimPrefix(name, BackupFilePrefix), m.suffix())
		timestamp, err := time.Parse(timestampFormat, timestampStr)
		if err != nil {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		backups = append(backups, Info{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}

	return nil
}

// RestoreBackup replaces the workbook with the given backup file, taking a
// safety backup of the current workbook first.
func (m *Manager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	if err := m.verifyBackup(backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.workbookPath); err == nil {
		current, err := m.createBackup(true)
		if err != nil {
			return fmt.Errorf("failed to back up current workbook before restore: %w", err)
		}
		fmt.Printf("Created backup of current workbook: %s\n", filepath.Base(current))
	}

	// Copy to a temp file then rename so the replacement is atomic
	tempPath := m.workbookPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.workbookPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("failed to restore workbook: %w", err)
	}

	return nil
}

func (m *Manager) verifyBackup(path string) error {
	if m.suffix() == ".json" {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			return fmt.Errorf("backup file is empty")
		}
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
