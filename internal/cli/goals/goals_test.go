package goals

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/config"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/storage/memory"
	"github.com/julianstephens/habyss/internal/tracker"
)

var fixedNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func setupTestContext(t *testing.T) *cli.Context {
	store := memory.NewStore()
	require.NoError(t, store.Init())

	habit := models.NewHabit("Run", fixedNow)
	habit.ID = "h1"
	habit.Days = models.EveryDay
	habit.StartDate = "2024-03-01"
	require.NoError(t, store.AddHabit(habit))

	return &cli.Context{
		Store:  store,
		Config: &config.Config{Timezone: "UTC"},
		Now:    func() time.Time { return fixedNow },
	}
}

func TestGoalAddCmd(t *testing.T) {
	ctx := setupTestContext(t)

	require.NoError(t, (&GoalAddCmd{Name: "Marathon", Target: "2024-03-20", Category: "body"}).Run(ctx))

	goal, err := ctx.Store.GetHabitByName("Marathon")
	require.NoError(t, err)
	assert.True(t, goal.IsGoal)
	assert.Equal(t, "2024-03-20", goal.TargetDate)
	assert.Equal(t, "2024-03-10", goal.StartDate)

	err = (&GoalAddCmd{Name: "Late", Target: "2024-03-01", Category: "body"}).Run(ctx)
	assert.Error(t, err, "target before start")

	err = (&GoalAddCmd{Name: "Marathon", Category: "body"}).Run(ctx)
	assert.Error(t, err, "duplicate name")
}

func TestGoalLinkAndProgress(t *testing.T) {
	ctx := setupTestContext(t)
	require.NoError(t, (&GoalAddCmd{Name: "Fit", Start: "2024-03-01", Target: "2024-03-20", Category: "body"}).Run(ctx))

	require.NoError(t, (&GoalLinkCmd{Habit: "Run", Goal: "Fit"}).Run(ctx))
	goal, err := ctx.Store.GetHabitByName("Fit")
	require.NoError(t, err)
	linked, err := ctx.Store.ListHabits(storage.LinkedTo(goal.ID))
	require.NoError(t, err)
	require.Len(t, linked, 1)

	tr, err := ctx.Tracker()
	require.NoError(t, err)
	h, err := ctx.Store.GetHabit("h1")
	require.NoError(t, err)
	_, err = tr.ToggleDay(&h, "2024-03-10")
	require.NoError(t, err)

	p, err := tr.GoalProgress(&goal)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Due)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 10, p.DaysLeft)

	assert.NoError(t, (&GoalListCmd{}).Run(ctx))
	assert.NoError(t, (&GoalShowCmd{Goal: "Fit"}).Run(ctx))

	require.NoError(t, (&GoalUnlinkCmd{Habit: "Run"}).Run(ctx))
	h, err = ctx.Store.GetHabit("h1")
	require.NoError(t, err)
	assert.Empty(t, h.GoalID)
	assert.NoError(t, (&GoalUnlinkCmd{Habit: "Run"}).Run(ctx), "unlinking twice is a no-op")
}

func TestGoalLinkCmd_Rejects(t *testing.T) {
	ctx := setupTestContext(t)
	require.NoError(t, (&GoalAddCmd{Name: "Fit", Category: "body"}).Run(ctx))

	other := models.NewHabit("Swim", fixedNow)
	other.ID = "h2"
	other.Days = models.EveryDay
	require.NoError(t, ctx.Store.AddHabit(other))

	err := (&GoalLinkCmd{Habit: "Run", Goal: "Swim"}).Run(ctx)
	assert.True(t, errors.Is(err, stats.ErrNotAGoal), "got %v", err)

	err = (&GoalLinkCmd{Habit: "Fit", Goal: "Fit"}).Run(ctx)
	assert.True(t, errors.Is(err, tracker.ErrGoalOfGoal), "got %v", err)

	err = (&GoalLinkCmd{Habit: "Run", Goal: "missing"}).Run(ctx)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

	err = (&GoalShowCmd{Goal: "Run"}).Run(ctx)
	assert.True(t, errors.Is(err, stats.ErrNotAGoal), "got %v", err)
}
