// Package tracker records habit completions by calendar day and derives the
// per-habit figures shown by the CLI and the HTTP API.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/schedule"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/utils"
)

var ErrNilHabit = errors.New("habit is nil or has no id")

type Tracker struct {
	store storage.Provider
	loc   *time.Location
	now   func() time.Time
}

type Option func(*Tracker)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New returns a tracker that reads calendar days in loc. A nil loc means
// time.Local.
func New(store storage.Provider, loc *time.Location, opts ...Option) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	t := &Tracker{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Now returns the clock's current time in the tracker's location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Today returns the current calendar day (YYYY-MM-DD).
func (t *Tracker) Today() string {
	return utils.DayKey(t.now(), t.loc)
}

// Day returns the calendar day of date in the tracker's location.
func (t *Tracker) Day(date time.Time) string {
	return utils.DayKey(date, t.loc)
}

func checkHabit(habit *models.Habit) error {
	if habit == nil || habit.ID == "" {
		return ErrNilHabit
	}
	return nil
}

// Toggle flips the completion of habit on date's calendar day and reports
// whether the habit is completed afterwards.
func (t *Tracker) Toggle(habit *models.Habit, date time.Time) (bool, error) {
	return t.ToggleValue(habit, date, constants.DefaultCompletionValue)
}

// ToggleToday toggles the habit on the clock's current day.
func (t *Tracker) ToggleToday(habit *models.Habit) (bool, error) {
	return t.Toggle(habit, t.now())
}

// ToggleValue is Toggle recording value instead of the default quantity when
// it creates a completion.
func (t *Tracker) ToggleValue(habit *models.Habit, date time.Time, value float64) (bool, error) {
	if err := checkHabit(habit); err != nil {
		return false, err
	}

	day := t.Day(date)
	completion := models.Completion{
		ID:        uuid.New().String(),
		HabitID:   habit.ID,
		Day:       day,
		Value:     value,
		CreatedAt: t.now().UTC(),
	}

	completed, err := t.store.ToggleCompletion(completion)
	if err != nil {
		logger.Error("Failed to toggle completion", "habit", habit.Name, "day", day, "error", err)
		return false, fmt.Errorf("failed to toggle %q on %s: %w", habit.Name, day, err)
	}
	logger.Debug("Toggled completion", "habit", habit.Name, "day", day, "completed", completed)
	return completed, nil
}

// ToggleDay toggles the habit on a YYYY-MM-DD day.
func (t *Tracker) ToggleDay(habit *models.Habit, day string) (bool, error) {
	date, err := utils.ParseDateInLocation(day, t.loc)
	if err != nil {
		return false, err
	}
	return t.Toggle(habit, date)
}

// IsCompleted reports whether habit has a completion on date's calendar day.
func (t *Tracker) IsCompleted(habit *models.Habit, date time.Time) (bool, error) {
	if err := checkHabit(habit); err != nil {
		return false, err
	}
	_, err := t.store.GetCompletion(habit.ID, t.Day(date))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AgendaItem is one row of the daily list.
type AgendaItem struct {
	Habit     models.Habit `json:"habit"`
	Completed bool         `json:"completed"`
	Value     float64      `json:"value,omitempty"`
}

// Agenda lists the habits due on date's calendar day with their completion
// state, in the given sort order.
func (t *Tracker) Agenda(date time.Time, order storage.SortOrder) ([]AgendaItem, error) {
	habits, err := t.store.ListHabits(storage.HabitQuery{Kind: storage.KindHabits, Sort: order})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	day := t.Day(date)
	completions, err := t.store.GetCompletionsForDay(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions for %s: %w", day, err)
	}
	values := make(map[string]float64, len(completions))
	for _, c := range completions {
		values[c.HabitID] = c.Value
	}

	items := []AgendaItem{}
	for _, h := range schedule.DueOn(habits, date.In(t.loc)) {
		value, done := values[h.ID]
		items = append(items, AgendaItem{Habit: h, Completed: done, Value: value})
	}
	return items, nil
}
