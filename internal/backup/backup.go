// Package backup snapshots the SQLite database into a rotating set of files
// next to it.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/logger"
)

// timestampLayout names backup files; it sorts lexically in time order.
const timestampLayout = "20060102-150405"

var ErrBackupNotFound = errors.New("backup not found")

// Info describes one backup file.
type Info struct {
	Path      string
	Name      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now when naming backups.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRetention overrides how many backups rotation keeps.
func WithRetention(keep int) Option {
	return func(m *Manager) {
		if keep > 0 {
			m.keep = keep
		}
	}
}

// NewManager returns a manager for the database at dbPath. Backups go to a
// directory beside it.
func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Dir() string {
	return m.backupDir
}

func (m *Manager) Retention() int {
	return m.keep
}

// Create snapshots the database and rotates old backups.
func (m *Manager) Create() (Info, error) {
	info, err := m.create()
	if err != nil {
		return Info{}, err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) create() (Info, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); err != nil {
		return Info{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	now := m.now()
	path, err := m.nextPath(now)
	if err != nil {
		return Info{}, err
	}
	if err := m.snapshot(path); err != nil {
		return Info{}, fmt.Errorf("failed to backup database: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Info("Created backup", "path", path)
	return Info{
		Path:      path,
		Name:      filepath.Base(path),
		Timestamp: now,
		Size:      stat.Size(),
	}, nil
}

// nextPath picks an unused file name for now, adding a counter
// when several backups land in the same second.
func (m *Manager) nextPath(now time.Time) (string, error) {
	stamp := now.Format(timestampLayout)
	for counter := 0; counter <= 100; counter++ {
		name := constants.BackupFilePrefix + stamp
		if counter > 0 {
			name += "-" + strconv.Itoa(counter)
		}
		path := filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", errors.New("failed to generate unique backup filename")
}

// snapshot writes a consistent copy of the database with VACUUM INTO.
func (m *Manager) snapshot(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := checkDatabase(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		return err
	}
	return nil
}

func checkDatabase(db *sql.DB) error {
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'habits'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no habits table")
	}
	return err
}

// parseName extracts the timestamp of a backup file name, ignoring any
// collision counter.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stamp) > len(timestampLayout) {
		counter := stamp[len(timestampLayout):]
		if _, err := strconv.Atoi(strings.TrimPrefix(counter, "-")); err != nil || counter[0] != '-' {
			return time.Time{}, false
		}
		stamp = stamp[:len(timestampLayout)]
	}
	t, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// List returns every backup, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		stat, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Name:      entry.Name(),
			Timestamp: ts,
			Size:      stat.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// Latest returns the newest backup.
func (m *Manager) Latest() (Info, error) {
	backups, err := m.List()
	if err != nil {
		return Info{}, err
	}
	if len(backups) == 0 {
		return Info{}, ErrBackupNotFound
	}
	return backups[0], nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Resolve finds a backup given an absolute path, a path relative to the
// working directory or a file name inside the backup directory.
func (m *Manager) Resolve(ref string) (string, error) {
	if filepath.IsAbs(ref) {
		if _, err := os.Stat(ref); err != nil {
			return "", fmt.Errorf("%w: %s", ErrBackupNotFound, ref)
		}
		return ref, nil
	}
	if _, err := os.Stat(ref); err == nil {
		return filepath.Abs(ref)
	}
	candidate := filepath.Join(m.backupDir, ref)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: tried %s and %s", ErrBackupNotFound, ref, m.backupDir)
}

// Restore replaces the database with the backup at path. The current
// database is snapshotted first, without rotation, and that snapshot's path
// is returned (empty when there was no database). The store must be closed.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrBackupNotFound, path)
	}
	if err := verify(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		info, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		previous = info.Path
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Restored database from backup", "backup", path)
	return previous, nil
}

func verify(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return checkDatabase(db)
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

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
