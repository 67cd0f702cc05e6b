package tracker

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
)

var ErrGoalOfGoal = errors.New("goals cannot be linked to other goals")

// Goal loads the goal with id, rejecting plain habits.
func (t *Tracker) Goal(id string) (models.Habit, error) {
	goal, err := t.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}
	if !goal.IsGoal {
		return models.Habit{}, fmt.Errorf("%q: %w", goal.Name, stats.ErrNotAGoal)
	}
	return goal, nil
}

// LinkHabit attaches habit to the goal with goalID and saves it. An empty
// goalID detaches the habit.
func (t *Tracker) LinkHabit(habit *models.Habit, goalID string) error {
	if err := checkHabit(habit); err != nil {
		return err
	}
	if habit.IsGoal {
		return ErrGoalOfGoal
	}
	if goalID != "" {
		if _, err := t.Goal(goalID); err != nil {
			return fmt.Errorf("cannot link %q: %w", habit.Name, err)
		}
	}

	habit.GoalID = goalID
	if err := t.store.UpdateHabit(*habit); err != nil {
		return fmt.Errorf("failed to save %q: %w", habit.Name, err)
	}
	logger.Debug("Linked habit to goal", "habit", habit.Name, "goal", goalID)
	return nil
}
