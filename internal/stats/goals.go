package stats

import (
	"errors"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/schedule"
	"github.com/julianstephens/habyss/internal/utils"
)

var ErrNotAGoal = errors.New("habit is not a goal")

// GoalProgress rolls the linked habits of a goal up into one figure.
type GoalProgress struct {
	GoalID       string `json:"goal_id"`
	LinkedHabits int    `json:"linked_habits"`
	From         string `json:"from"`
	To           string `json:"to"`
	Due          int    `json:"due"`
	Completed    int    `json:"completed"`
	Remaining    int    `json:"remaining"`
	Percent      int    `json:"percent"`
	DaysLeft     int    `json:"days_left"`
	Overdue      bool   `json:"overdue"`
}

// ComputeGoalProgress counts due occurrences of every linked habit from the
// goal's start date to its target date, or to today when the goal has none.
// completions maps habit ID to that habit's completions.
func ComputeGoalProgress(goal models.Habit, linked []models.Habit, completions map[string][]models.Completion, today string) (GoalProgress, error) {
	if !goal.IsGoal {
		return GoalProgress{}, ErrNotAGoal
	}

	to := goal.TargetDate
	if to == "" {
		to = today
	}
	progress := GoalProgress{
		GoalID:       goal.ID,
		LinkedHabits: len(linked),
		From:         goal.StartDate,
		To:           to,
	}

	for _, h := range linked {
		due, err := schedule.ScheduledDays(h, goal.StartDate, to)
		if err != nil {
			return GoalProgress{}, err
		}
		progress.Due += due
		progress.Completed += completedDue(h, distinctDays(completions[h.ID], today), goal.StartDate, to)
	}

	progress.Remaining = progress.Due - progress.Completed
	progress.Percent = percent(progress.Completed, progress.Due)

	if goal.TargetDate != "" {
		left, err := utils.DaysBetween(today, goal.TargetDate)
		if err != nil {
			return GoalProgress{}, err
		}
		if left < 0 {
			progress.Overdue = progress.Remaining > 0
			left = 0
		}
		progress.DaysLeft = left
	}
	return progress, nil
}
