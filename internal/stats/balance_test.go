package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/habyss/internal/models"
)

func TestComputeDayBalance(t *testing.T) {
	archivedAt := time.Now()
	habits := []models.Habit{
		{ID: "run", Category: models.CategoryBody, Days: models.EveryDay},
		{ID: "lift", Category: models.CategoryBody, Days: models.EveryDay},
		{ID: "read", Category: models.CategoryMind, Days: models.EveryDay},
		{ID: "budget", Category: models.CategoryWealth, Days: models.NewWeekdaySet(time.Sunday)},
		{ID: "old", Category: models.CategoryPlay, Days: models.EveryDay, ArchivedAt: &archivedAt},
		{ID: "goal", Category: models.CategorySoul, Days: models.EveryDay, IsGoal: true},
	}
	completions := []models.Completion{
		{HabitID: "run", Day: "2024-03-05"},
		{HabitID: "read", Day: "2024-03-05"},
		{HabitID: "lift", Day: "2024-03-04"},
	}

	got := ComputeDayBalance(habits, completions, "2024-03-05") // Tuesday

	if got.Due != 3 || got.Done != 2 || got.Percent != 66 {
		t.Errorf("totals = %d/%d (%d%%), want 2/3 (66%%)", got.Done, got.Due, got.Percent)
	}
	if len(got.Categories) != len(models.Categories) {
		t.Fatalf("got %d categories, want %d", len(got.Categories), len(models.Categories))
	}

	want := map[models.Category][2]int{
		models.CategoryBody:   {2, 1},
		models.CategoryMind:   {1, 1},
		models.CategoryWealth: {0, 0},
		models.CategoryPlay:   {0, 0},
		models.CategorySoul:   {0, 0},
	}
	for _, cb := range got.Categories {
		w, ok := want[cb.Category]
		if !ok {
			continue
		}
		if cb.Due != w[0] || cb.Done != w[1] {
			t.Errorf("%s = %d/%d, want %d/%d", cb.Category, cb.Done, cb.Due, w[1], w[0])
		}
	}
}

func TestComputeDayBalance_Empty(t *testing.T) {
	got := ComputeDayBalance(nil, nil, "2024-03-05")
	if got.Percent != 0 || got.Due != 0 {
		t.Errorf("ComputeDayBalance(nil) = %+v", got)
	}
}
