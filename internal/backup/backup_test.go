package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (string, *sqlite.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habyss.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := models.NewHabit("Read", time.Now())
	h.ID = "h1"
	h.Days = models.EveryDay
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return dbPath, store
}

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

func TestCreateAndList(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(stepClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))))

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.Name != "habyss-20240310-090000.db" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Size == 0 {
		t.Error("backup is empty")
	}
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("List() returned %d backups, want 2", len(backups))
	}
	if !backups[0].Timestamp.After(backups[1].Timestamp) {
		t.Error("List() is not newest first")
	}

	latest, err := mgr.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Path != backups[0].Path {
		t.Errorf("Latest() = %s, want %s", latest.Path, backups[0].Path)
	}
}

func TestCreate_SameSecondGetsCounter(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	fixed := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	a, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	b, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.Path == b.Path {
		t.Fatal("two backups share a path")
	}
	if b.Name != "habyss-20240310-090000-1.db" {
		t.Errorf("second Name = %q", b.Name)
	}

	backups, _ := mgr.List()
	if len(backups) != 2 {
		t.Errorf("List() returned %d backups, want 2", len(backups))
	}
}

func TestRotation(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath,
		WithClock(stepClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))),
		WithRetention(2))

	for i := 0; i < 4; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("kept %d backups, want 2", len(backups))
	}
	if backups[1].Name != "habyss-20240310-090200.db" {
		t.Errorf("oldest kept = %s, want the third backup", backups[1].Name)
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "habyss-latest.db", "habyss-20240310-0900.db", "habyss-20240310-090000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %+v, want none", backups)
	}
	if _, err := mgr.Latest(); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Latest() error = %v, want ErrBackupNotFound", err)
	}
}

func TestRestore(t *testing.T) {
	dbPath, store := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(stepClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}
	store.Close()

	resolved, err := mgr.Resolve(snapshot.Name)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	previous, err := mgr.Restore(resolved)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if previous == "" {
		t.Error("Restore() did not snapshot the current database")
	}

	reopened := sqlite.NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetHabit("h1"); err != nil {
		t.Errorf("habit missing after restore: %v", err)
	}
}

func TestRestore_RejectsInvalidBackup(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("Restore() accepted a file that is not a habyss database")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Restore(missing) error = %v, want ErrBackupNotFound", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "habyss.db"))
	if _, err := mgr.Resolve("habyss-19990101-000000.db"); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Resolve() error = %v, want ErrBackupNotFound", err)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"habyss-20240310-090000.db", true},
		{"habyss-20240310-090000-3.db", true},
		{"habyss-20240310-090000-x.db", false},
		{"other-20240310-090000.db", false},
		{"habyss-20240310-090000.sqlite", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseName(tt.name); ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}
