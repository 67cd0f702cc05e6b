// Package schedule decides on which calendar days a habit is due.
//
// Weekdays follow time.Weekday, Sunday first. Days are YYYY-MM-DD strings in
// the user's timezone, so they compare lexically.
package schedule

import (
	"time"

	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/utils"
)

// IsDue reports whether habit is due on date's calendar day, read in date's
// own location. Convert date to the user's timezone first.
func IsDue(habit models.Habit, date time.Time) bool {
	return isDue(habit, date.Format(constants.DateFormat), date.Weekday())
}

// IsDueOn is IsDue for a YYYY-MM-DD day. Malformed days are never due.
func IsDueOn(habit models.Habit, day string) bool {
	wd, err := utils.WeekdayOf(day)
	if err != nil {
		return false
	}
	return isDue(habit, day, wd)
}

func isDue(habit models.Habit, day string, wd time.Weekday) bool {
	if habit.IsGoal || !habit.Days.Has(wd) {
		return false
	}
	return InRange(habit, day)
}

// InRange reports whether day lies within [StartDate, EndDate]. Empty bounds
// are open.
func InRange(habit models.Habit, day string) bool {
	if habit.StartDate != "" && day < habit.StartDate {
		return false
	}
	if habit.EndDate != "" && day > habit.EndDate {
		return false
	}
	return true
}

// DueOn returns the habits on the daily list for date: active, non-goal and due.
func DueOn(habits []models.Habit, date time.Time) []models.Habit {
	due := []models.Habit{}
	for _, h := range habits {
		if h.Archived() {
			continue
		}
		if IsDue(h, date) {
			due = append(due, h)
		}
	}
	return due
}

// DueDays lists the days in [from, to] on which habit is due, oldest first.
func DueDays(habit models.Habit, from, to string) ([]string, error) {
	start, err := utils.ParseDay(from)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDay(to)
	if err != nil {
		return nil, err
	}

	days := []string{}
	if habit.IsGoal || habit.Days.Empty() {
		return days, nil
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(constants.DateFormat)
		if isDue(habit, day, d.Weekday()) {
			days = append(days, day)
		}
	}
	return days, nil
}

// ScheduledDays counts the days in [from, to] on which habit is due.
func ScheduledDays(habit models.Habit, from, to string) (int, error) {
	days, err := DueDays(habit, from, to)
	if err != nil {
		return 0, err
	}
	return len(days), nil
}
