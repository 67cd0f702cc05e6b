package habits

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/schedule"
	"github.com/julianstephens/habyss/internal/storage"
)

// HabitMarkCmd toggles a habit's completion: marking a completed day again
// clears it.
type HabitMarkCmd struct {
	Habit string  `arg:"" help:"Habit id or name."`
	Date  string  `help:"Date in YYYY-MM-DD format (default: today)."`
	Value float64 `help:"Amount to record with the completion." default:"1"`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	if c.Value <= 0 {
		return errors.New("value must be positive")
	}
	habit, err := findActive(ctx, c.Habit)
	if err != nil {
		return err
	}
	if habit.Archived() {
		return fmt.Errorf("%q is archived; unarchive it first", habit.Name)
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	if date.After(tr.Now()) {
		return fmt.Errorf("cannot mark %s, it is in the future", tr.Day(date))
	}

	completed, err := tr.ToggleValue(&habit, date, c.Value)
	if err != nil {
		return err
	}

	day := tr.Day(date)
	if completed {
		fmt.Printf("%s Marked %s for %s\n", cli.Check(true), cli.HabitLabel(habit), day)
	} else {
		fmt.Printf("%s Unmarked %s for %s\n", cli.Check(false), cli.HabitLabel(habit), day)
	}
	if !schedule.IsDueOn(habit, day) {
		fmt.Println(cli.MutedStyle.Render("  (not scheduled on that day)"))
	}
	return nil
}

type HabitTodayCmd struct {
	Date string `help:"Show another day (YYYY-MM-DD)."`
	Sort string `help:"Sort order: created or name." default:"created" enum:"created,name"`
}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	items, err := tr.Agenda(date, storage.ParseSortOrder(c.Sort))
	if err != nil {
		return err
	}
	day := tr.Day(date)
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Habits for %s:", day)))
	fmt.Println()
	if len(items) == 0 {
		fmt.Println("Nothing scheduled.")
		return nil
	}

	for _, item := range items {
		line := fmt.Sprintf("%s %s", cli.Check(item.Completed), cli.HabitLabel(item.Habit))
		if item.Completed && item.Value != constants.DefaultCompletionValue {
			line += cli.MutedStyle.Render(fmt.Sprintf(" (%g %s)", item.Value, item.Habit.Unit))
		}
		fmt.Println(line)
	}

	balance, err := tr.Balance(date)
	if err != nil {
		return err
	}
	fmt.Printf("\nDone: %d/%d %s %s\n", balance.Done, balance.Due, cli.Bar(balance.Percent, 20), cli.Percent(balance.Percent))
	for _, cat := range balance.Categories {
		if cat.Due == 0 {
			continue
		}
		fmt.Printf("  %-7s %d/%d\n", cat.Category, cat.Done, cat.Due)
	}
	return nil
}
