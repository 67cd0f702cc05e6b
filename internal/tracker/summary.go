package tracker

import (
	"fmt"
	"time"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/utils"
)

// HabitStats is everything the detail views show for one habit.
type HabitStats struct {
	HabitID          string                  `json:"habit_id"`
	Name             string                  `json:"name"`
	Today            string                  `json:"today"`
	CompletedToday   bool                    `json:"completed_today"`
	CurrentStreak    int                     `json:"current_streak"`
	LongestStreak    int                     `json:"longest_streak"`
	TotalCompletions int                     `json:"total_completions"`
	Consistency      stats.ConsistencyReport `json:"consistency"`
}

// Stats computes streaks and consistency for habit over the last windowDays days.
func (t *Tracker) Stats(habit *models.Habit, windowDays int) (HabitStats, error) {
	if err := checkHabit(habit); err != nil {
		return HabitStats{}, err
	}
	completions, err := t.store.GetCompletions(habit.ID)
	if err != nil {
		return HabitStats{}, fmt.Errorf("failed to load completions of %q: %w", habit.Name, err)
	}
	return t.statsFor(*habit, completions, windowDays)
}

func (t *Tracker) statsFor(habit models.Habit, completions []models.Completion, windowDays int) (HabitStats, error) {
	today := t.Today()
	consistency, err := stats.Consistency(habit, completions, windowDays, today)
	if err != nil {
		return HabitStats{}, err
	}

	result := HabitStats{
		HabitID:          habit.ID,
		Name:             habit.Name,
		Today:            today,
		CurrentStreak:    stats.CurrentStreak(completions, today),
		LongestStreak:    stats.LongestStreak(completions),
		TotalCompletions: len(completions),
		Consistency:      consistency,
	}
	now := t.now()
	for _, c := range completions {
		day, err := utils.ParseDateInLocation(c.Day, t.loc)
		if err != nil {
			continue
		}
		if utils.SameDay(day, now, t.loc) {
			result.CompletedToday = true
			break
		}
	}
	return result, nil
}

// Overview is the cross-habit summary of the stats screen.
type Overview struct {
	Habits             []HabitStats `json:"habits"`
	OverallConsistency int          `json:"overall_consistency"`
}

// Overview computes stats for every active habit.
func (t *Tracker) Overview(windowDays int) (Overview, error) {
	habits, err := t.store.ListHabits(storage.ActiveHabits())
	if err != nil {
		return Overview{}, fmt.Errorf("failed to list habits: %w", err)
	}
	all, err := t.store.GetAllCompletions()
	if err != nil {
		return Overview{}, fmt.Errorf("failed to load completions: %w", err)
	}
	byHabit := groupByHabit(all)

	overview := Overview{Habits: []HabitStats{}}
	reports := make([]stats.ConsistencyReport, 0, len(habits))
	for _, h := range habits {
		hs, err := t.statsFor(h, byHabit[h.ID], windowDays)
		if err != nil {
			return Overview{}, err
		}
		overview.Habits = append(overview.Habits, hs)
		reports = append(reports, hs.Consistency)
	}
	overview.OverallConsistency = stats.OverallConsistency(reports)
	return overview, nil
}

func groupByHabit(completions []models.Completion) map[string][]models.Completion {
	byHabit := make(map[string][]models.Completion)
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	return byHabit
}

// GoalProgress rolls up the habits linked to goal.
func (t *Tracker) GoalProgress(goal *models.Habit) (stats.GoalProgress, error) {
	if err := checkHabit(goal); err != nil {
		return stats.GoalProgress{}, err
	}
	linked, err := t.store.ListHabits(storage.LinkedTo(goal.ID))
	if err != nil {
		return stats.GoalProgress{}, fmt.Errorf("failed to list habits of goal %q: %w", goal.Name, err)
	}

	completions := make(map[string][]models.Completion, len(linked))
	for _, h := range linked {
		cs, err := t.store.GetCompletions(h.ID)
		if err != nil {
			return stats.GoalProgress{}, fmt.Errorf("failed to load completions of %q: %w", h.Name, err)
		}
		completions[h.ID] = cs
	}
	return stats.ComputeGoalProgress(*goal, linked, completions, t.Today())
}

// Balance returns the per-category split of date's due habits.
func (t *Tracker) Balance(date time.Time) (stats.DayBalance, error) {
	habits, err := t.store.ListHabits(storage.ActiveHabits())
	if err != nil {
		return stats.DayBalance{}, fmt.Errorf("failed to list habits: %w", err)
	}
	day := t.Day(date)
	completions, err := t.store.GetCompletionsForDay(day)
	if err != nil {
		return stats.DayBalance{}, fmt.Errorf("failed to load completions for %s: %w", day, err)
	}
	return stats.ComputeDayBalance(habits, completions, day), nil
}
