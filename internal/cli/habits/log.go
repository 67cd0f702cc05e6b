package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/schedule"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/utils"
)

const logNameWidth = 20

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"${log_days}"`
	Habit string `help:"Show log for a specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 || c.Days > constants.MaxConsistencyWindow {
		return fmt.Errorf("days must be between 1 and %d", constants.MaxConsistencyWindow)
	}

	var selected []models.Habit
	if c.Habit != "" {
		h, err := findActive(ctx, c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		habits, err := ctx.Store.ListHabits(storage.ActiveHabits())
		if err != nil {
			return err
		}
		selected = habits
	}
	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	endDay := tr.Today()
	startDay, err := utils.AddDays(endDay, -(c.Days - 1))
	if err != nil {
		return err
	}
	days := make([]string, 0, c.Days)
	for day := startDay; day <= endDay; {
		days = append(days, day)
		if day, err = utils.AddDays(day, 1); err != nil {
			return err
		}
	}

	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	fmt.Print(padName("Habit"))
	for _, day := range days {
		fmt.Printf(" %5s", day[5:7]+"/"+day[8:10])
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", logNameWidth+6*len(days)))

	for _, habit := range selected {
		completions, err := ctx.Store.GetCompletionsInRange(habit.ID, startDay, endDay)
		if err != nil {
			return err
		}
		done := make(map[string]bool, len(completions))
		for _, comp := range completions {
			done[comp.Day] = true
		}

		fmt.Print(padName(habit.Name))
		for _, day := range days {
			fmt.Print(cell(done[day], schedule.IsDueOn(habit, day)))
		}
		fmt.Println()
	}
	fmt.Println()
	fmt.Println(cli.MutedStyle.Render("x done   . missed   - not scheduled"))
	return nil
}

func cell(done, due bool) string {
	switch {
	case done:
		return cli.SuccessStyle.Render("  x   ")
	case due:
		return "  .   "
	default:
		return cli.MutedStyle.Render("  -   ")
	}
}

func padName(name string) string {
	runes := []rune(name)
	if len(runes) > logNameWidth {
		return string(runes[:logNameWidth-3]) + "..."
	}
	return name + strings.Repeat(" ", logNameWidth-len(runes))
}
