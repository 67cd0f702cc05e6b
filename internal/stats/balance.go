package stats

import (
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/schedule"
)

type CategoryBalance struct {
	Category models.Category `json:"category"`
	Due      int             `json:"due"`
	Done     int             `json:"done"`
}

// DayBalance is the per-category split of one day's due habits.
type DayBalance struct {
	Day        string            `json:"day"`
	Categories []CategoryBalance `json:"categories"`
	Due        int               `json:"due"`
	Done       int               `json:"done"`
	Percent    int               `json:"percent"`
}

// ComputeDayBalance counts, per category, the habits due on day and how many
// of them have a completion on that day. dayCompletions holds the day's
// completions across all habits. Categories appear in models.Categories
// order, including empty ones.
func ComputeDayBalance(habits []models.Habit, dayCompletions []models.Completion, day string) DayBalance {
	done := make(map[string]bool, len(dayCompletions))
	for _, c := range dayCompletions {
		if c.Day == day {
			done[c.HabitID] = true
		}
	}

	byCategory := make(map[models.Category]*CategoryBalance, len(models.Categories))
	balance := DayBalance{Day: day, Categories: make([]CategoryBalance, len(models.Categories))}
	for i, c := range models.Categories {
		balance.Categories[i].Category = c
		byCategory[c] = &balance.Categories[i]
	}

	for _, h := range habits {
		if h.Archived() || !schedule.IsDueOn(h, day) {
			continue
		}
		cb, ok := byCategory[h.Category]
		if !ok {
			continue
		}
		cb.Due++
		balance.Due++
		if done[h.ID] {
			cb.Done++
			balance.Done++
		}
	}
	balance.Percent = percent(balance.Done, balance.Due)
	return balance
}
