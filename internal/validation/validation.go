package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName  ConflictType = "duplicate_habit_name"
	ConflictInvalidCategory     ConflictType = "invalid_category"
	ConflictInvalidDateRange    ConflictType = "invalid_date_range"
	ConflictInvalidHabit        ConflictType = "invalid_habit"
	ConflictEmptySchedule       ConflictType = "empty_schedule"
	ConflictMissingGoal         ConflictType = "missing_goal"
	ConflictLinkedToNonGoal     ConflictType = "linked_to_non_goal"
	ConflictOrphanCompletion    ConflictType = "orphan_completion"
	ConflictDuplicateCompletion ConflictType = "duplicate_completion"
	ConflictInvalidDay          ConflictType = "invalid_day"
)

// Conflict represents a detected problem in habits or completions
type Conflict struct {
	Type          ConflictType
	Description   string
	Day           string   // YYYY-MM-DD (if applicable)
	Items         []string // habit names involved
	HabitIDs      []string
	CompletionIDs []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks stored habits and completions for inconsistencies the
// stores cannot rule out on their own.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks habit fields and goal links.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	// Duplicate names only matter among active habits
	nameIDs := make(map[string][]string)
	var names []string
	for _, h := range habits {
		if h.Archived() || strings.TrimSpace(h.Name) == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if _, seen := nameIDs[key]; !seen {
			names = append(names, key)
		}
		nameIDs[key] = append(nameIDs[key], h.ID)
	}
	sort.Strings(names)
	for _, name := range names {
		ids := nameIDs[name]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				HabitIDs:    ids,
			})
		}
	}

	for _, h := range habits {
		if err := h.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, habitConflict(h, err))
		}

		if !h.IsGoal && !h.Archived() && h.Days.Empty() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptySchedule,
				Description: fmt.Sprintf("Habit \"%s\" has no scheduled weekdays and is never due", h.Name),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		}

		if h.GoalID == "" {
			continue
		}
		goal, ok := byID[h.GoalID]
		switch {
		case !ok:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingGoal,
				Description: fmt.Sprintf("Habit \"%s\" links to missing goal %s", h.Name, h.GoalID),
				Items:       []string{h.Name},
				HabitIDs:    []string{h.ID},
			})
		case !goal.IsGoal:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictLinkedToNonGoal,
				Description: fmt.Sprintf("Habit \"%s\" links to \"%s\", which is not a goal", h.Name, goal.Name),
				Items:       []string{h.Name, goal.Name},
				HabitIDs:    []string{h.ID, goal.ID},
			})
		}
	}

	return result
}

func habitConflict(h models.Habit, err error) Conflict {
	conflictType := ConflictInvalidHabit
	switch {
	case errors.Is(err, models.ErrInvalidCategory):
		conflictType = ConflictInvalidCategory
	case errors.Is(err, models.ErrInvalidDateRange):
		conflictType = ConflictInvalidDateRange
	}
	return Conflict{
		Type:        conflictType,
		Description: fmt.Sprintf("Habit \"%s\" is invalid: %v", h.Name, err),
		Items:       []string{h.Name},
		HabitIDs:    []string{h.ID},
	}
}

// ValidateCompletions checks that every completion belongs to a known habit,
// has a well-formed day and is the only one for its habit on that day.
func (v *Validator) ValidateCompletions(habits []models.Habit, completions []models.Completion) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	type habitDay struct{ habitID, day string }
	seen := make(map[habitDay][]string)
	var order []habitDay

	for _, c := range completions {
		habit, ok := byID[c.HabitID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:          ConflictOrphanCompletion,
				Description:   fmt.Sprintf("Completion %s on %s belongs to missing habit %s", c.ID, c.Day, c.HabitID),
				Day:           c.Day,
				HabitIDs:      []string{c.HabitID},
				CompletionIDs: []string{c.ID},
			})
			continue
		}
		if _, err := utils.ParseDay(c.Day); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:          ConflictInvalidDay,
				Description:   fmt.Sprintf("Completion %s of \"%s\" has malformed day %q", c.ID, habit.Name, c.Day),
				Day:           c.Day,
				Items:         []string{habit.Name},
				HabitIDs:      []string{habit.ID},
				CompletionIDs: []string{c.ID},
			})
			continue
		}

		key := habitDay{c.HabitID, c.Day}
		if _, dup := seen[key]; !dup {
			order = append(order, key)
		}
		seen[key] = append(seen[key], c.ID)
	}

	for _, key := range order {
		ids := seen[key]
		if len(ids) < 2 {
			continue
		}
		name := byID[key.habitID].Name
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:          ConflictDuplicateCompletion,
			Description:   fmt.Sprintf("Habit \"%s\" has %d completions on %s", name, len(ids), key.day),
			Day:           key.day,
			Items:         []string{name},
			HabitIDs:      []string{key.habitID},
			CompletionIDs: ids,
		})
	}

	return result
}
