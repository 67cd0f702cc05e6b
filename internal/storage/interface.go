package storage

import (
	"errors"

	"github.com/julianstephens/habyss/internal/models"
)

var (
	// ErrNotFound is returned when a habit, completion or settings row does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCompletion is returned when a habit already has a completion on that day
	ErrDuplicateCompletion = errors.New("habit already completed on that day")
	// ErrNotInitialized is returned by Load when the store has never been initialized
	ErrNotInitialized = errors.New("storage not initialized, run 'habyss init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	ListHabits(HabitQuery) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	// DeleteHabit removes the habit and all of its completions.
	DeleteHabit(id string) error

	// Completions
	GetCompletion(habitID, day string) (models.Completion, error)
	// GetCompletions returns every completion of the habit, newest day first.
	GetCompletions(habitID string) ([]models.Completion, error)
	// GetCompletionsInRange returns completions with startDay <= day <= endDay, newest first.
	GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error)
	GetCompletionsForDay(day string) ([]models.Completion, error)
	GetAllCompletions() ([]models.Completion, error)
	AddCompletion(models.Completion) error
	DeleteCompletion(id string) error
	// ToggleCompletion removes the completion of c.HabitID on c.Day if one exists,
	// otherwise inserts c. It reports whether the habit is completed afterwards.
	// The check and the write happen atomically.
	ToggleCompletion(c models.Completion) (bool, error)

	// Utils
	GetConfigPath() string
}
