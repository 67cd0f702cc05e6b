package habits

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/tracker"
)

// HabitStatsCmd prints streaks and consistency for one habit, or the
// overview of every active habit when none is given.
type HabitStatsCmd struct {
	Habit  string `arg:"" optional:"" help:"Habit id or name (default: all active habits)."`
	Window int    `help:"Consistency window in days (default: the consistency_window_days setting)."`
	JSON   bool   `name:"json" help:"Print stats as JSON."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	window := c.Window
	if window == 0 {
		window = ctx.WindowDays()
	}
	if window < 1 || window > constants.MaxConsistencyWindow {
		return fmt.Errorf("window must be between 1 and %d days", constants.MaxConsistencyWindow)
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	if c.Habit == "" {
		overview, err := tr.Overview(window)
		if err != nil {
			return err
		}
		if c.JSON {
			return printJSON(overview)
		}
		printOverview(overview, window)
		return nil
	}

	habit, err := findActive(ctx, c.Habit)
	if err != nil {
		return err
	}
	hs, err := tr.Stats(&habit, window)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(hs)
	}

	fmt.Println(cli.TitleStyle.Render(cli.HabitLabel(habit)))
	fmt.Printf("  Done today:       %s\n", cli.Check(hs.CompletedToday))
	fmt.Printf("  Current streak:   %d days\n", hs.CurrentStreak)
	fmt.Printf("  Longest streak:   %d days\n", hs.LongestStreak)
	fmt.Printf("  Total completed:  %d\n", hs.TotalCompletions)
	r := hs.Consistency
	fmt.Printf("  Consistency:      %s %s  (%d of %d scheduled days, %s to %s)\n",
		cli.Bar(r.Percent, 20), cli.Percent(r.Percent), r.Completed, r.Scheduled, r.From, r.To)
	return nil
}

func printOverview(o tracker.Overview, window int) {
	if len(o.Habits) == 0 {
		fmt.Println("No habits found.")
		return
	}
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Stats (last %d days):", window)))
	fmt.Println()
	for _, hs := range o.Habits {
		fmt.Printf("  %s %-24s streak %3d  best %3d  %s\n",
			cli.Check(hs.CompletedToday), hs.Name, hs.CurrentStreak, hs.LongestStreak, cli.Percent(hs.Consistency.Percent))
	}
	fmt.Printf("\nOverall consistency: %s\n", cli.Percent(o.OverallConsistency))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
