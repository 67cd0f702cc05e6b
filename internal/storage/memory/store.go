// Package memory implements storage.Provider on in-process maps. It backs
// tests and the --db=:memory: mode; nothing is persisted.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/storage"
)

// Path is the --db value that selects this store.
const Path = ":memory:"

type Store struct {
	mu          sync.RWMutex
	settings    *models.Settings
	habits      map[string]models.Habit
	completions map[string]map[string]models.Completion // habit id -> day -> completion
}

var _ storage.Provider = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		habits:      make(map[string]models.Habit),
		completions: make(map[string]map[string]models.Completion),
	}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		defaults := storage.DefaultSettings()
		s.settings = &defaults
	}
	return nil
}

func (s *Store) Load() error {
	return s.Init()
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return Path
}

func (s *Store) GetSettings() (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	return *s.settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}

// cloneHabit detaches the ArchivedAt pointer so callers cannot mutate stored state.
func cloneHabit(h models.Habit) models.Habit {
	if h.ArchivedAt != nil {
		t := *h.ArchivedAt
		h.ArchivedAt = &t
	}
	return h
}

func (s *Store) AddHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.habits[habit.ID]; exists {
		return fmt.Errorf("habit %s already exists", habit.ID)
	}
	s.habits[habit.ID] = cloneHabit(habit)
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return cloneHabit(h), nil
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []models.Habit
	for _, h := range s.habits {
		if h.Name == name {
			matches = append(matches, h)
		}
	}
	if len(matches) == 0 {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	storage.SortHabits(matches, storage.SortByCreated)
	return cloneHabit(matches[0]), nil
}

func (s *Store) ListHabits(q storage.HabitQuery) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	habits := []models.Habit{}
	for _, h := range s.habits {
		if q.Matches(h) {
			habits = append(habits, cloneHabit(h))
		}
	}
	storage.SortHabits(habits, q.Sort)
	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.habits[habit.ID]
	if !ok {
		return fmt.Errorf("habit %s: %w", habit.ID, storage.ErrNotFound)
	}
	habit.CreatedAt = existing.CreatedAt
	s.habits[habit.ID] = cloneHabit(habit)
	return nil
}

func (s *Store) ArchiveHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok || h.Archived() {
		return fmt.Errorf("active habit %s: %w", id, storage.ErrNotFound)
	}
	now := time.Now().UTC()
	h.ArchivedAt = &now
	s.habits[id] = h
	return nil
}

func (s *Store) UnarchiveHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok || !h.Archived() {
		return fmt.Errorf("archived habit %s: %w", id, storage.ErrNotFound)
	}
	h.ArchivedAt = nil
	s.habits[id] = h
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	delete(s.habits, id)
	delete(s.completions, id)
	for hid, h := range s.habits {
		if h.GoalID == id {
			h.GoalID = ""
			s.habits[hid] = h
		}
	}
	return nil
}

func (s *Store) GetCompletion(habitID, day string) (models.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.completions[habitID][day]
	if !ok {
		return models.Completion{}, fmt.Errorf("completion of %s on %s: %w", habitID, day, storage.ErrNotFound)
	}
	return c, nil
}

// newestFirst orders completions by day descending.
func newestFirst(completions []models.Completion) {
	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Day > completions[j].Day
	})
}

func (s *Store) GetCompletions(habitID string) ([]models.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	completions := []models.Completion{}
	for _, c := range s.completions[habitID] {
		completions = append(completions, c)
	}
	newestFirst(completions)
	return completions, nil
}

func (s *Store) GetCompletionsInRange(habitID, startDay, endDay string) ([]models.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	completions := []models.Completion{}
	for day, c := range s.completions[habitID] {
		if day >= startDay && day <= endDay {
			completions = append(completions, c)
		}
	}
	newestFirst(completions)
	return completions, nil
}

func (s *Store) GetCompletionsForDay(day string) ([]models.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	completions := []models.Completion{}
	for _, byDay := range s.completions {
		if c, ok := byDay[day]; ok {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool {
		return completions[i].CreatedAt.Before(completions[j].CreatedAt)
	})
	return completions, nil
}

func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	completions := []models.Completion{}
	for _, byDay := range s.completions {
		for _, c := range byDay {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool {
		if completions[i].HabitID != completions[j].HabitID {
			return completions[i].HabitID < completions[j].HabitID
		}
		return completions[i].Day < completions[j].Day
	})
	return completions, nil
}

// insertLocked stores c. The caller holds the write lock.
func (s *Store) insertLocked(c models.Completion) error {
	if _, ok := s.habits[c.HabitID]; !ok {
		return fmt.Errorf("habit %s: %w", c.HabitID, storage.ErrNotFound)
	}
	byDay, ok := s.completions[c.HabitID]
	if !ok {
		byDay = make(map[string]models.Completion)
		s.completions[c.HabitID] = byDay
	}
	if _, exists := byDay[c.Day]; exists {
		return fmt.Errorf("%s on %s: %w", c.HabitID, c.Day, storage.ErrDuplicateCompletion)
	}
	byDay[c.Day] = c
	return nil
}

func (s *Store) AddCompletion(c models.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(c)
}

func (s *Store) DeleteCompletion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, byDay := range s.completions {
		for day, c := range byDay {
			if c.ID == id {
				delete(byDay, day)
				return nil
			}
		}
	}
	return fmt.Errorf("completion %s: %w", id, storage.ErrNotFound)
}

func (s *Store) ToggleCompletion(c models.Completion) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.completions[c.HabitID][c.Day]; exists {
		delete(s.completions[c.HabitID], c.Day)
		return false, nil
	}
	if err := s.insertLocked(c); err != nil {
		return false, err
	}
	return true, nil
}
