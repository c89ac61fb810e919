// Package backup keeps rotating copies of the local database, writes snapshot exports and
// imports snapshots dropped into the inbox directory.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/logger"
)

const (
	// MaxBackups is the number of database backups kept after rotation
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "glowup-"
	BackupFileSuffix = ".db"

	stampFormat = "20060102-150405"
)

type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int // collision counter within the same second
}

// Manager backs up and restores the SQLite key-value database
type Manager struct {
	dbPath    string
	backupDir string
	clock     clock.Clock
}

// NewManager keeps backups in a "backups" directory next to dbPath
func NewManager(dbPath string, c clock.Clock) *Manager {
	if c == nil {
		c = clock.Real{}
	}
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), BackupDirName),
		clock:     c,
	}
}

func (m *Manager) BackupDir() string { return m.backupDir }

// CreateBackup copies the database and rotates old backups
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.createBackup()
	if err != nil {
		return "", err
	}
	if err := m.rotateBackups(); err != nil {
		logger.Warn("failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) createBackup() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.vacuumInto(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Info("database backed up", "path", path)
	return path, nil
}

// nextPath names the backup after the current second, adding a counter on collision
func (m *Manager) nextPath() (string, error) {
	stamp := m.clock.Now().Format(stampFormat)
	path := filepath.Join(m.backupDir, BackupFilePrefix+stamp+BackupFileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if n > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", BackupFilePrefix, stamp, n, BackupFileSuffix))
	}
}

func (m *Manager) vacuumInto(dest string) error {
	db, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Warn("VACUUM INTO failed, copying the file instead", "error", err)
		db.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// verify checks that db is a glowup database
func verify(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count)
}

func parseBackupName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, BackupFilePrefix) || !strings.HasSuffix(name, BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, BackupFilePrefix), BackupFileSuffix)
	if len(stamp) < len(stampFormat) {
		return time.Time{}, 0, false
	}
	ts, err := time.ParseInLocation(stampFormat, stamp[:len(stampFormat)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	seq := 0
	if rest := stamp[len(stampFormat):]; rest != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "-"))
		if err != nil || !strings.HasPrefix(rest, "-") || n < 1 {
			return time.Time{}, 0, false
		}
		seq = n
	}
	return ts, seq, true
}

// ListBackups returns the backups newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}
	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
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

// RestoreBackup replaces the database with backupPath. The current database is backed up
// first, without rotation; its backup path is returned ("" when there was no database).
// The caller must not hold the database open.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verifyFile(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		previous, err = m.createBackup()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return previous, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return previous, fmt.Errorf("failed to restore database: %w", err)
	}
	// stale WAL files would be replayed over the restored pages
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(m.dbPath + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove sqlite sidecar file", "path", m.dbPath+suffix, "error", err)
		}
	}
	logger.Info("database restored", "from", backupPath)
	return previous, nil
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
