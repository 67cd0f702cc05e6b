package habits

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/config"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/storage/sqlite"
)

// 2024-03-10 is a Sunday.
var fixedNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store:  store,
		Config: &config.Config{Timezone: "UTC"},
		Now:    func() time.Time { return fixedNow },
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, cleanup
}

func addHabit(t *testing.T, ctx *cli.Context, name string, days string) models.Habit {
	t.Helper()
	if err := (&HabitAddCmd{Name: name, Category: "body", Type: "build", Days: days, Unit: "count", GoalValue: 1, Start: "2024-03-01"}).Run(ctx); err != nil {
		t.Fatalf("add %q failed: %v", name, err)
	}
	h, err := ctx.Store.GetHabitByName(name)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHabitAddCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &HabitAddCmd{
		Name:      "Meditate",
		Category:  "Mind",
		Type:      "build",
		Days:      "mon,wed,fri",
		Unit:      "minutes",
		GoalValue: 10,
		Icon:      "🧘",
		Color:     "#00aa00",
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	h, err := ctx.Store.GetHabitByName("Meditate")
	if err != nil {
		t.Fatalf("habit not stored: %v", err)
	}
	if h.Category != models.CategoryMind {
		t.Errorf("Category = %q, want mind", h.Category)
	}
	want := models.NewWeekdaySet(time.Monday, time.Wednesday, time.Friday)
	if h.Days != want {
		t.Errorf("Days = %v, want %v", h.Days, want)
	}
	if h.StartDate != "2024-03-10" {
		t.Errorf("StartDate = %q, want today", h.StartDate)
	}
	if h.GoalValue != 10 || h.Unit != "minutes" || h.Color != "#00aa00" {
		t.Errorf("unexpected habit fields: %+v", h)
	}
}

func TestHabitAddCmd_Rejects(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addHabit(t, ctx, "Read", "daily")

	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{"duplicate name", HabitAddCmd{Name: "Read", Category: "body", Type: "build", Days: "daily"}},
		{"empty name", HabitAddCmd{Name: "  ", Category: "body", Type: "build", Days: "daily"}},
		{"bad category", HabitAddCmd{Name: "A", Category: "sleep", Type: "build", Days: "daily"}},
		{"bad type", HabitAddCmd{Name: "B", Category: "body", Type: "maybe", Days: "daily"}},
		{"bad days", HabitAddCmd{Name: "C", Category: "body", Type: "build", Days: "funday"}},
		{"no days", HabitAddCmd{Name: "D", Category: "body", Type: "build", Days: ""}},
		{"end before start", HabitAddCmd{Name: "E", Category: "body", Type: "build", Days: "daily", Start: "2024-03-10", End: "2024-03-01"}},
		{"bad start", HabitAddCmd{Name: "F", Category: "body", Type: "build", Days: "daily", Start: "03/10/2024"}},
		{"unknown goal", HabitAddCmd{Name: "G", Category: "body", Type: "build", Days: "daily", Goal: "nope"}},
		{"goal is a habit", HabitAddCmd{Name: "H", Category: "body", Type: "build", Days: "daily", Goal: "Read"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}

	habits, _ := ctx.Store.ListHabits(storage.HabitQuery{IncludeArchived: true})
	if len(habits) != 1 {
		t.Errorf("rejected adds stored habits: %d", len(habits))
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", "daily")
	addHabit(t, ctx, "Run", "daily")

	name := "Read more"
	days := "sat,sun"
	if err := (&HabitEditCmd{Habit: h.ID, Name: &name, Days: &days}).Run(ctx); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}
	got, _ := ctx.Store.GetHabit(h.ID)
	if got.Name != name {
		t.Errorf("Name = %q, want %q", got.Name, name)
	}
	if got.Days != models.NewWeekdaySet(time.Saturday, time.Sunday) {
		t.Errorf("Days = %v", got.Days)
	}

	taken := "Run"
	if err := (&HabitEditCmd{Habit: h.ID, Name: &taken}).Run(ctx); err == nil {
		t.Error("expected error renaming onto an existing habit")
	}
	zero := 0
	if err := (&HabitEditCmd{Habit: h.ID, GoalValue: &zero}).Run(ctx); err == nil {
		t.Error("expected error for goal value 0")
	}
}

func TestHabitMarkCmd_Toggles(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", "daily")
	mark := &HabitMarkCmd{Habit: "Read", Value: 1}

	if err := mark.Run(ctx); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if _, err := ctx.Store.GetCompletion(h.ID, "2024-03-10"); err != nil {
		t.Errorf("completion missing after mark: %v", err)
	}

	if err := mark.Run(ctx); err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	if _, err := ctx.Store.GetCompletion(h.ID, "2024-03-10"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("completion still present after second mark: %v", err)
	}
}

func TestHabitMarkCmd_Date(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", "daily")

	if err := (&HabitMarkCmd{Habit: h.ID, Date: "2024-03-08", Value: 2.5}).Run(ctx); err != nil {
		t.Fatalf("mark with date failed: %v", err)
	}
	c, err := ctx.Store.GetCompletion(h.ID, "2024-03-08")
	if err != nil {
		t.Fatalf("completion missing: %v", err)
	}
	if c.Value != 2.5 {
		t.Errorf("Value = %v, want 2.5", c.Value)
	}
	if _, err := ctx.Store.GetCompletion(h.ID, "2024-03-10"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("marking a past day also completed today")
	}
}

func TestHabitMarkCmd_Rejects(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	addHabit(t, ctx, "Read", "daily")
	archived := addHabit(t, ctx, "Old", "daily")
	if err := ctx.Store.ArchiveHabit(archived.ID); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.AddHabit(models.Habit{
		ID: "g1", Name: "Fit", Category: models.CategoryBody, Type: models.HabitTypeBuild,
		StartDate: "2024-03-01", IsGoal: true, CreatedAt: fixedNow,
	}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cmd  HabitMarkCmd
	}{
		{"unknown habit", HabitMarkCmd{Habit: "Nope", Value: 1}},
		{"future day", HabitMarkCmd{Habit: "Read", Date: "2024-03-11", Value: 1}},
		{"bad date", HabitMarkCmd{Habit: "Read", Date: "yesterday", Value: 1}},
		{"zero value", HabitMarkCmd{Habit: "Read", Value: 0}},
		{"goal", HabitMarkCmd{Habit: "Fit", Value: 1}},
		{"archived", HabitMarkCmd{Habit: "Old", Value: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHabitTodayLogAndStats(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", "daily")
	addHabit(t, ctx, "Weekdays", "mon,tue,wed,thu,fri")
	for _, day := range []string{"2024-03-08", "2024-03-09", "2024-03-10"} {
		if err := (&HabitMarkCmd{Habit: h.ID, Date: day, Value: 1}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	if err := (&HabitTodayCmd{Sort: "name"}).Run(ctx); err != nil {
		t.Errorf("today failed: %v", err)
	}
	if err := (&HabitLogCmd{Days: 7}).Run(ctx); err != nil {
		t.Errorf("log failed: %v", err)
	}
	if err := (&HabitLogCmd{Days: 0}).Run(ctx); err == nil {
		t.Error("expected error for a zero-day log")
	}
	if err := (&HabitStatsCmd{}).Run(ctx); err != nil {
		t.Errorf("stats overview failed: %v", err)
	}
	if err := (&HabitStatsCmd{Habit: "Read", Window: 7, JSON: true}).Run(ctx); err != nil {
		t.Errorf("habit stats failed: %v", err)
	}
	if err := (&HabitStatsCmd{Habit: "Read", Window: -1}).Run(ctx); err == nil {
		t.Error("expected error for a negative window")
	}

	tr, err := ctx.Tracker()
	if err != nil {
		t.Fatal(err)
	}
	hs, err := tr.Stats(&h, 7)
	if err != nil {
		t.Fatal(err)
	}
	if hs.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", hs.CurrentStreak)
	}
	if hs.Consistency.Percent != 42 {
		t.Errorf("Consistency = %d%%, want 42%%", hs.Consistency.Percent)
	}
}

func TestHabitArchiveAndDelete(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", "daily")
	if err := (&HabitMarkCmd{Habit: h.ID, Value: 1}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitArchiveCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	active, _ := ctx.Store.ListHabits(storage.ActiveHabits())
	if len(active) != 0 {
		t.Errorf("archived habit still listed as active")
	}
	if err := (&HabitArchiveCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Errorf("archiving twice should be a no-op: %v", err)
	}
	if err := (&HabitUnarchiveCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("unarchive failed: %v", err)
	}
	if got, _ := ctx.Store.GetHabit(h.ID); got.Archived() {
		t.Error("habit still archived after unarchive")
	}

	if err := (&HabitDeleteCmd{Habit: "Read", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetHabit(h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("habit still present after delete: %v", err)
	}
	if cs, _ := ctx.Store.GetCompletions(h.ID); len(cs) != 0 {
		t.Errorf("completions survived delete: %d", len(cs))
	}

	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatal(err)
	}
	if backups, _ := mgr.List(); len(backups) != 1 {
		t.Errorf("expected an automatic backup before delete, got %d", len(backups))
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&HabitListCmd{Kind: "habits", Sort: "created"}).Run(ctx); err != nil {
		t.Errorf("list on empty store failed: %v", err)
	}
	addHabit(t, ctx, "Read", "daily")
	if err := (&HabitListCmd{Kind: "all", Sort: "name", Archived: true}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&HabitListCmd{Kind: "habits", Sort: "name", JSON: true}).Run(ctx); err != nil {
		t.Errorf("list --json failed: %v", err)
	}
}

func TestExportCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	h := addHabit(t, ctx, "Read", "daily")
	if err := (&HabitMarkCmd{Habit: h.ID, Value: 1}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "export.json")
	if err := (&ExportCmd{Output: out}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc Export
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(doc.Habits) != 1 || len(doc.Completions) != 1 {
		t.Errorf("export has %d habits and %d completions, want 1 and 1", len(doc.Habits), len(doc.Completions))
	}
	if !doc.ExportedAt.Equal(fixedNow) {
		t.Errorf("ExportedAt = %v, want %v", doc.ExportedAt, fixedNow)
	}
}

func TestHabitAddCmd_LinksGoal(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := ctx.Store.AddHabit(models.Habit{
		ID: "g1", Name: "Fit", Category: models.CategoryBody, Type: models.HabitTypeBuild,
		StartDate: "2024-03-01", IsGoal: true, CreatedAt: fixedNow,
	}); err != nil {
		t.Fatal(err)
	}
	if err := (&HabitAddCmd{Name: "Run", Category: "body", Type: "build", Days: "daily", Goal: "Fit"}).Run(ctx); err != nil {
		t.Fatalf("add with goal failed: %v", err)
	}
	h, _ := ctx.Store.GetHabitByName("Run")
	if h.GoalID != "g1" {
		t.Errorf("GoalID = %q, want g1", h.GoalID)
	}

	err := (&HabitAddCmd{Name: "Swim", Category: "body", Type: "build", Days: "daily", Goal: "Run"}).Run(ctx)
	if !errors.Is(err, stats.ErrNotAGoal) {
		t.Errorf("linking to a habit: error = %v, want ErrNotAGoal", err)
	}
}
