package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Init())
	return s
}

func habit(id, name string, created time.Time) models.Habit {
	h := models.NewHabit(name, created)
	h.ID = id
	h.Days = models.EveryDay
	return h
}

func TestStore_SettingsBeforeInit(t *testing.T) {
	s := NewStore()
	_, err := s.GetSettings()
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Load())
	got, err := s.GetSettings()
	assert.NoError(t, err)
	assert.Equal(t, storage.DefaultSettings(), got)
}

func TestStore_HabitLifecycle(t *testing.T) {
	s := newStore(t)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddHabit(habit("h1", "Meditate", now)))
	assert.Error(t, s.AddHabit(habit("h1", "Again", now)))

	got, err := s.GetHabit("h1")
	require.NoError(t, err)
	assert.Equal(t, "Meditate", got.Name)

	byName, err := s.GetHabitByName("Meditate")
	require.NoError(t, err)
	assert.Equal(t, "h1", byName.ID)

	require.NoError(t, s.ArchiveHabit("h1"))
	assert.ErrorIs(t, s.ArchiveHabit("h1"), storage.ErrNotFound)

	active, err := s.ListHabits(storage.HabitQuery{})
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := s.GetHabit("h1")
	require.NoError(t, err)
	archived.ArchivedAt = nil
	stored, _ := s.GetHabit("h1")
	assert.True(t, stored.Archived(), "mutating a returned habit must not touch the store")

	require.NoError(t, s.UnarchiveHabit("h1"))
	active, _ = s.ListHabits(storage.HabitQuery{})
	assert.Len(t, active, 1)

	_, err = s.GetHabit("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ListHabitsSorted(t *testing.T) {
	s := newStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddHabit(habit("b", "banana", base)))
	require.NoError(t, s.AddHabit(habit("a", "Apple", base.Add(time.Minute))))

	byCreated, err := s.ListHabits(storage.HabitQuery{})
	require.NoError(t, err)
	assert.Equal(t, "b", byCreated[0].ID)

	byName, err := s.ListHabits(storage.HabitQuery{Sort: storage.SortByName})
	require.NoError(t, err)
	assert.Equal(t, "a", byName[0].ID)
}

func TestStore_DeleteHabitCascades(t *testing.T) {
	s := newStore(t)
	now := time.Now()
	goal := habit("g", "Goal", now)
	goal.IsGoal = true
	linked := habit("h", "Linked", now)
	linked.GoalID = "g"
	require.NoError(t, s.AddHabit(goal))
	require.NoError(t, s.AddHabit(linked))
	require.NoError(t, s.AddCompletion(models.Completion{ID: "c1", HabitID: "g", Day: "2024-05-01", CreatedAt: now}))

	require.NoError(t, s.DeleteHabit("g"))

	completions, err := s.GetCompletions("g")
	require.NoError(t, err)
	assert.Empty(t, completions)

	h, err := s.GetHabit("h")
	require.NoError(t, err)
	assert.Empty(t, h.GoalID)
}

func TestStore_CompletionQueries(t *testing.T) {
	s := newStore(t)
	now := time.Now()
	require.NoError(t, s.AddHabit(habit("h", "Run", now)))

	for _, day := range []string{"2024-05-02", "2024-05-01", "2024-05-03"} {
		require.NoError(t, s.AddCompletion(models.Completion{ID: "c" + day, HabitID: "h", Day: day, Value: 1, CreatedAt: now}))
	}
	err := s.AddCompletion(models.Completion{ID: "x", HabitID: "h", Day: "2024-05-01", CreatedAt: now})
	assert.ErrorIs(t, err, storage.ErrDuplicateCompletion)

	all, err := s.GetCompletions("h")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-05-03", all[0].Day)

	ranged, err := s.GetCompletionsInRange("h", "2024-05-01", "2024-05-02")
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	require.NoError(t, s.DeleteCompletion("c2024-05-02"))
	assert.ErrorIs(t, s.DeleteCompletion("c2024-05-02"), storage.ErrNotFound)

	err = s.AddCompletion(models.Completion{ID: "orphan", HabitID: "missing", Day: "2024-05-01"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ConcurrentToggles(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AddHabit(habit("h", "Run", time.Now())))

	// An even number of toggles on one day must leave it uncompleted, and
	// there is never more than one completion per day in between.
	const toggles = 50
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.ToggleCompletion(models.Completion{
				ID:      fmt.Sprintf("c%d", i),
				HabitID: "h",
				Day:     "2024-05-01",
				Value:   1,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	completions, err := s.GetCompletionsForDay("2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, completions)
}
