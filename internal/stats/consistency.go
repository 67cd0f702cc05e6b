package stats

import (
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/schedule"
	"github.com/julianstephens/habyss/internal/utils"
)

// ConsistencyReport is the completion rate of a habit over a window of days
// ending today. Percent is floored: 4 of 7 is 57.
type ConsistencyReport struct {
	WindowDays int    `json:"window_days"`
	From       string `json:"from"`
	To         string `json:"to"`
	Scheduled  int    `json:"scheduled"`
	Completed  int    `json:"completed"`
	Percent    int    `json:"percent"`
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}

// completedDue counts the done days in [from, to] on which habit was due.
func completedDue(habit models.Habit, done map[string]bool, from, to string) int {
	n := 0
	for day := range done {
		if day >= from && day <= to && schedule.IsDueOn(habit, day) {
			n++
		}
	}
	return n
}

// Consistency reports how many of the habit's due days in the last
// windowDays days (today included) have a completion. Completions on days the
// habit was not due do not count.
func Consistency(habit models.Habit, completions []models.Completion, windowDays int, today string) (ConsistencyReport, error) {
	report := ConsistencyReport{WindowDays: windowDays, To: today}
	if windowDays <= 0 {
		report.From = today
		return report, nil
	}

	from, err := utils.AddDays(today, -(windowDays - 1))
	if err != nil {
		return ConsistencyReport{}, err
	}
	report.From = from

	if report.Scheduled, err = schedule.ScheduledDays(habit, from, today); err != nil {
		return ConsistencyReport{}, err
	}
	report.Completed = completedDue(habit, distinctDays(completions, today), from, today)
	report.Percent = percent(report.Completed, report.Scheduled)
	return report, nil
}

// OverallConsistency averages the percentages of reports that had at least
// one scheduled day, flooring the result.
func OverallConsistency(reports []ConsistencyReport) int {
	total, counted := 0, 0
	for _, r := range reports {
		if r.Scheduled == 0 {
			continue
		}
		total += r.Percent
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / counted
}
