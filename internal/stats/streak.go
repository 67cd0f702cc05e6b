// Package stats derives display values from a habit's completion history.
// Every function is pure: callers pass the completions and the current day.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/utils"
)

// distinctDays collapses completions to the set of parseable calendar days
// on or before upTo. An empty upTo keeps every day.
func distinctDays(completions []models.Completion, upTo string) map[string]bool {
	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		if _, err := utils.ParseDay(c.Day); err != nil {
			continue
		}
		if upTo != "" && c.Day > upTo {
			continue
		}
		days[c.Day] = true
	}
	return days
}

func previousDay(t time.Time) (time.Time, string) {
	prev := t.AddDate(0, 0, -1)
	return prev, prev.Format(constants.DateFormat)
}

// CurrentStreak counts consecutive completed days ending on today or
// yesterday. A streak whose latest day is older than yesterday is broken.
// Multiple completions on one day count once.
//
// Completions dated after today are dropped before the walk, so the latest
// completion used is the latest one on or before today. A day pre-filled in
// the future neither breaks nor extends the current streak.
func CurrentStreak(completions []models.Completion, today string) int {
	todayTime, err := utils.ParseDay(today)
	if err != nil {
		return 0
	}
	days := distinctDays(completions, today)
	if len(days) == 0 {
		return 0
	}

	_, yesterday := previousDay(todayTime)
	var cursor time.Time
	switch {
	case days[today]:
		cursor = todayTime
	case days[yesterday]:
		cursor, _ = previousDay(todayTime)
	default:
		return 0
	}

	streak := 0
	for day := cursor.Format(constants.DateFormat); days[day]; {
		streak++
		cursor, day = previousDay(cursor)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days in the
// whole history.
func LongestStreak(completions []models.Completion) int {
	days := distinctDays(completions, "")
	if len(days) == 0 {
		return 0
	}

	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		gap, _ := utils.DaysBetween(sorted[i-1], sorted[i])
		if gap == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
