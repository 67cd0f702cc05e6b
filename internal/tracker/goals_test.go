package tracker

import (
	"errors"
	"testing"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/storage/memory"
)

func TestLinkHabit(t *testing.T) {
	store := memory.NewStore()
	tr, h := setupTestTracker(t, store)

	goal := models.NewHabit("Calm mind", fixedNow)
	goal.ID = "g1"
	goal.IsGoal = true
	if err := store.AddHabit(goal); err != nil {
		t.Fatal(err)
	}

	if err := tr.LinkHabit(h, "g1"); err != nil {
		t.Fatalf("LinkHabit() error = %v", err)
	}
	linked, err := store.ListHabits(storage.LinkedTo("g1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(linked) != 1 || linked[0].ID != h.ID {
		t.Errorf("linked habits = %+v", linked)
	}

	if err := tr.LinkHabit(h, ""); err != nil {
		t.Fatalf("LinkHabit(unlink) error = %v", err)
	}
	stored, _ := store.GetHabit(h.ID)
	if stored.GoalID != "" {
		t.Errorf("GoalID = %q after unlink", stored.GoalID)
	}
}

func TestLinkHabit_Rejects(t *testing.T) {
	store := memory.NewStore()
	tr, h := setupTestTracker(t, store)

	other := models.NewHabit("Run", fixedNow)
	other.ID = "h2"
	if err := store.AddHabit(other); err != nil {
		t.Fatal(err)
	}
	goal := models.NewHabit("Fit", fixedNow)
	goal.ID = "g1"
	goal.IsGoal = true
	if err := store.AddHabit(goal); err != nil {
		t.Fatal(err)
	}

	if err := tr.LinkHabit(h, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing goal error = %v, want ErrNotFound", err)
	}
	if err := tr.LinkHabit(h, "h2"); !errors.Is(err, stats.ErrNotAGoal) {
		t.Errorf("plain habit as goal error = %v, want ErrNotAGoal", err)
	}
	if err := tr.LinkHabit(&goal, "g1"); !errors.Is(err, ErrGoalOfGoal) {
		t.Errorf("goal of goal error = %v, want ErrGoalOfGoal", err)
	}
	if err := tr.LinkHabit(nil, "g1"); !errors.Is(err, ErrNilHabit) {
		t.Errorf("nil habit error = %v, want ErrNilHabit", err)
	}
}
