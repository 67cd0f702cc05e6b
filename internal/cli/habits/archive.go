package habits

import (
	"fmt"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/storage"
)

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name to archive."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if habit.Archived() {
		fmt.Printf("%s is already archived.\n", habit.Name)
		return nil
	}
	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit id or name to unarchive."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if !habit.Archived() {
		fmt.Printf("%s is not archived.\n", habit.Name)
		return nil
	}
	if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Unarchived habit: %s\n", habit.Name)
	return nil
}

// HabitDeleteCmd removes a habit and its completions permanently. SQLite
// databases are backed up first.
type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name to delete."`
	Yes   bool   `short:"y" help:"Delete without asking for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		desc := "All completions are deleted too. Consider 'archive' to keep history."
		if habit.IsGoal {
			linked, err := ctx.Store.ListHabits(storage.LinkedTo(habit.ID))
			if err != nil {
				return err
			}
			desc = fmt.Sprintf("%d linked habit(s) will be unlinked.", len(linked))
		}
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q?", habit.Name), desc)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	logger.Info("Deleted habit", "id", habit.ID, "name", habit.Name)
	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
