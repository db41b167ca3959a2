package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// BackupManager snapshots and restores the corpus database file.
type BackupManager struct {
	dbPath string
	logger *slog.Logger
}

// NewBackupManager creates a backup manager for the database at dbPath.
func NewBackupManager(dbPath string, logger *slog.Logger) *BackupManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupManager{dbPath: dbPath, logger: logger}
}

// BackupConfig holds options for one backup.
type BackupConfig struct {
	// BackupDir defaults to a "backups" directory next to the database.
	BackupDir string

	// BackupName is the file name without extension. Defaults to a timestamp.
	BackupName string

	// VerifyBackup checks the copy after it is written.
	VerifyBackup bool
}

// DefaultBackupConfig returns a config that verifies every backup.
func DefaultBackupConfig() *BackupConfig {
	return &BackupConfig{VerifyBackup: true}
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	Checksum string    `json:"checksum"`
	Battles  int       `json:"battles"`
}

// GetBackupDir returns the default backup directory.
func (bm *BackupManager) GetBackupDir() string {
	return filepath.Join(filepath.Dir(bm.dbPath), "backups")
}

// Backup writes a consistent copy of the database with VACUUM INTO, which
// does not block readers, and returns its path.
func (bm *BackupManager) Backup(config *BackupConfig) (string, error) {
	if config == nil {
		config = DefaultBackupConfig()
	}

	backupDir := config.BackupDir
	if backupDir == "" {
		backupDir = bm.GetBackupDir()
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := config.BackupName
	if name == "" {
		name = "corpus_" + time.Now().Format("20060102_150405")
	}
	backupPath := filepath.Join(backupDir, name+".db")
	if _, err := os.Stat(backupPath); err == nil {
		return "", fmt.Errorf("backup already exists: %s", backupPath)
	}

	source, err := sql.Open("sqlite", bm.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	if _, err := source.Exec("VACUUM INTO ?", backupPath); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if config.VerifyBackup {
		if _, err := bm.VerifyBackup(backupPath); err != nil {
			_ = os.Remove(backupPath)
			return "", fmt.Errorf("backup verification failed: %w", err)
		}
	}

	bm.logger.Info("database backed up", "path", backupPath)
	return backupPath, nil
}

// VerifyBackup checks that path is an intact corpus database and returns
// the number of battles it holds.
func (bm *BackupManager) VerifyBackup(path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("backup not found: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return 0, fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return 0, fmt.Errorf("integrity check failed: %s", result)
	}

	var battles int
	if err := db.QueryRow("SELECT COUNT(*) FROM battles").Scan(&battles); err != nil {
		return 0, fmt.Errorf("not a corpus database: %w", err)
	}
	return battles, nil
}

// Restore replaces the database with a verified copy of backupPath. The
// current database is kept alongside as <name>.old.<timestamp>. Callers
// must close their connections first.
func (bm *BackupManager) Restore(backupPath string) error {
	if _, err := bm.VerifyBackup(backupPath); err != nil {
		return err
	}

	tempPath := bm.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to copy backup: %w", err)
	}

	if _, err := os.Stat(bm.dbPath); err == nil {
		oldPath := bm.dbPath + ".old." + time.Now().Format("20060102_150405")
		if err := os.Rename(bm.dbPath, oldPath); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to move current database aside: %w", err)
		}
		// A leftover WAL would be replayed into the restored file.
		for _, suffix := range []string{"-wal", "-shm"} {
			if err := os.Rename(bm.dbPath+suffix, oldPath+suffix); err != nil && !os.IsNotExist(err) {
				bm.logger.Warn("could not move database sidecar", "file", bm.dbPath+suffix, "error", err)
			}
		}
	}

	if err := os.Rename(tempPath, bm.dbPath); err != nil {
		return fmt.Errorf("failed to replace database: %w", err)
	}

	bm.logger.Info("database restored", "from", backupPath)
	return nil
}

// ListBackups returns the backups in backupDir (or the default directory),
// newest first. A missing directory yields no backups.
func (bm *BackupManager) ListBackups(backupDir string) ([]BackupInfo, error) {
	if backupDir == "" {
		backupDir = bm.GetBackupDir()
	}

	entries, err := os.ReadDir(backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(backupDir, entry.Name())
		checksum, err := calculateChecksum(path)
		if err != nil {
			checksum = "unknown"
		}
		battles, err := bm.VerifyBackup(path)
		if err != nil {
			battles = -1
		}

		backups = append(backups, BackupInfo{
			Path:     path,
			Name:     entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Checksum: checksum,
			Battles:  battles,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// calculateChecksum returns the hex SHA-256 of a file.
func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
