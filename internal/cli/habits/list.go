package habits

import (
	"fmt"

	"github.com/julianstephens/habyss/internal/cli"
)

type HabitListCmd struct {
	Archived bool   `help:"Include archived habits."`
	Kind     string `help:"Which entries to list: habits, goals or all." default:"habits" enum:"habits,goals,all"`
	Sort     string `help:"Sort order: created or name." default:"created" enum:"created,name"`
	JSON     bool   `name:"json" help:"Print habits as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(listQuery(c.Archived, c.Kind, c.Sort))
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(habits)
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if h.Archived() {
			status = cli.MutedStyle.Render(" [ARCHIVED]")
		}
		schedule := h.Days.String()
		if h.IsGoal {
			schedule = "goal"
			if h.TargetDate != "" {
				schedule += " by " + h.TargetDate
			}
		}
		fmt.Printf("%s  %s  %s%s\n",
			cli.MutedStyle.Render(h.ID),
			cli.HabitLabel(h),
			cli.MutedStyle.Render(fmt.Sprintf("(%s, %s)", h.Category, schedule)),
			status,
		)
	}
	return nil
}
