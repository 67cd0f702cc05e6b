// Package goals holds the commands for goals: habits that are never due
// themselves and instead roll up the habits linked to them.
package goals

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
)

type GoalAddCmd struct {
	Name     string `arg:"" help:"Goal name."`
	Target   string `help:"Target date (YYYY-MM-DD)."`
	Start    string `help:"Start date (YYYY-MM-DD, default: today)."`
	Category string `help:"Category: body, wealth, heart, mind, soul or play." default:"body"`
	Color    string `help:"Display color (default: the default_color setting)."`
	Icon     string `help:"Icon shown before the name."`
	Details  string `help:"Free-form notes."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	if existing, err := ctx.Store.GetHabitByName(strings.TrimSpace(c.Name)); err == nil && !existing.Archived() {
		return fmt.Errorf("habit with name %q already exists", existing.Name)
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	goal := models.NewHabit(c.Name, tr.Now())
	goal.ID = uuid.New().String()
	goal.IsGoal = true
	goal.TargetDate = c.Target
	goal.Icon = c.Icon
	goal.Details = strings.TrimSpace(c.Details)
	if c.Start != "" {
		goal.StartDate = c.Start
	}
	if goal.Category, err = models.ParseCategory(c.Category); err != nil {
		return err
	}
	if settings, err := ctx.Store.GetSettings(); err == nil && settings.DefaultColor != "" {
		goal.Color = settings.DefaultColor
	}
	if c.Color != "" {
		goal.Color = c.Color
	}

	if err := goal.Validate(); err != nil {
		return err
	}
	if goal.TargetDate != "" && goal.TargetDate < goal.StartDate {
		return fmt.Errorf("target date %s is before start date %s", goal.TargetDate, goal.StartDate)
	}
	if err := ctx.Store.AddHabit(goal); err != nil {
		return err
	}
	fmt.Printf("Added goal: %s\n", cli.HabitLabel(goal))
	return nil
}

type GoalListCmd struct {
	Archived bool `help:"Include archived goals."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	goals, err := ctx.Store.ListHabits(storage.HabitQuery{Kind: storage.KindGoals, IncludeArchived: c.Archived})
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("No goals found.")
		return nil
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	for _, g := range goals {
		p, err := tr.GoalProgress(&g)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s %s  %s\n", cli.HabitLabel(g), cli.Bar(p.Percent, 20), cli.Percent(p.Percent), deadline(p))
	}
	return nil
}

type GoalShowCmd struct {
	Goal string `arg:"" help:"Goal id or name."`
}

func (c *GoalShowCmd) Run(ctx *cli.Context) error {
	goal, err := findGoal(ctx, c.Goal)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	p, err := tr.GoalProgress(&goal)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(cli.HabitLabel(goal)))
	if goal.Details != "" {
		fmt.Println(cli.MutedStyle.Render(goal.Details))
	}
	fmt.Printf("  Period:     %s to %s  %s\n", p.From, p.To, deadline(p))
	fmt.Printf("  Progress:   %s %s  (%d of %d due, %d remaining)\n",
		cli.Bar(p.Percent, 20), cli.Percent(p.Percent), p.Completed, p.Due, p.Remaining)

	linked, err := ctx.Store.ListHabits(storage.LinkedTo(goal.ID))
	if err != nil {
		return err
	}
	fmt.Printf("\nLinked habits (%d):\n", len(linked))
	for _, h := range linked {
		hs, err := tr.Stats(&h, ctx.WindowDays())
		if err != nil {
			return err
		}
		status := ""
		if h.Archived() {
			status = cli.MutedStyle.Render(" [ARCHIVED]")
		}
		fmt.Printf("  %s %s  streak %d  %s%s\n", cli.Check(hs.CompletedToday), cli.HabitLabel(h), hs.CurrentStreak, cli.Percent(hs.Consistency.Percent), status)
	}
	return nil
}

func deadline(p stats.GoalProgress) string {
	switch {
	case p.Overdue:
		return cli.ErrorStyle.Render("overdue")
	case p.DaysLeft > 0:
		return cli.MutedStyle.Render(fmt.Sprintf("%d days left", p.DaysLeft))
	default:
		return ""
	}
}

type GoalLinkCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Goal  string `arg:"" help:"Goal id or name."`
}

func (c *GoalLinkCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	goal, err := ctx.FindHabit(c.Goal)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.LinkHabit(&habit, goal.ID); err != nil {
		return err
	}
	fmt.Printf("Linked %s to goal %s\n", habit.Name, goal.Name)
	return nil
}

type GoalUnlinkCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *GoalUnlinkCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if habit.GoalID == "" {
		fmt.Printf("%s is not linked to a goal.\n", habit.Name)
		return nil
	}
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := tr.LinkHabit(&habit, ""); err != nil {
		return err
	}
	fmt.Printf("Unlinked %s\n", habit.Name)
	return nil
}

func findGoal(ctx *cli.Context, ref string) (models.Habit, error) {
	goal, err := ctx.FindHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if !goal.IsGoal {
		return models.Habit{}, fmt.Errorf("%q: %w", goal.Name, stats.ErrNotAGoal)
	}
	return goal, nil
}
