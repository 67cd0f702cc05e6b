package storage

import (
	"sort"
	"strings"

	"github.com/julianstephens/habyss/internal/models"
)

type HabitKind int

const (
	KindAll HabitKind = iota
	KindHabits
	KindGoals
)

type SortOrder string

const (
	SortByCreated SortOrder = "created"
	SortByName    SortOrder = "name"
)

// ParseSortOrder maps user input to a SortOrder; unknown values fall back to creation order.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortByName)) {
		return SortByName
	}
	return SortByCreated
}

// ParseHabitKind maps "habits"/"goals" to a kind; anything else selects all.
func ParseHabitKind(s string) HabitKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "habit", "habits":
		return KindHabits
	case "goal", "goals":
		return KindGoals
	default:
		return KindAll
	}
}

// HabitQuery is the predicate and ordering used to list habits. The zero
// value lists every active habit and goal in creation order.
type HabitQuery struct {
	IncludeArchived bool
	Kind            HabitKind
	GoalID          string // only habits linked to this goal
	Sort            SortOrder
}

// ActiveHabits lists non-archived, non-goal habits.
func ActiveHabits() HabitQuery {
	return HabitQuery{Kind: KindHabits}
}

// LinkedTo lists the habits attached to a goal, archived ones included.
func LinkedTo(goalID string) HabitQuery {
	return HabitQuery{Kind: KindHabits, GoalID: goalID, IncludeArchived: true}
}

// Matches applies the query predicate to a single habit.
func (q HabitQuery) Matches(h models.Habit) bool {
	if !q.IncludeArchived && h.Archived() {
		return false
	}
	switch q.Kind {
	case KindHabits:
		if h.IsGoal {
			return false
		}
	case KindGoals:
		if !h.IsGoal {
			return false
		}
	}
	if q.GoalID != "" && h.GoalID != q.GoalID {
		return false
	}
	return true
}

// SortHabits orders habits in place. Ties break on ID so results are stable
// across stores.
func SortHabits(habits []models.Habit, order SortOrder) {
	sort.SliceStable(habits, func(i, j int) bool {
		a, b := habits[i], habits[j]
		if order == SortByName {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		} else if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
