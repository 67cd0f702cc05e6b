package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/stats"
	"github.com/julianstephens/habyss/internal/storage"
)

var ErrDetailsTooLong = fmt.Errorf("details exceed %d characters", constants.MaxHabitDetailsLength)

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Category  string `help:"Category: body, wealth, heart, mind, soul or play." default:"body"`
	Type      string `help:"Habit type: build or quit." default:"build"`
	Days      string `help:"Weekdays the habit is due, e.g. mon,wed,fri or daily." default:"daily"`
	Start     string `help:"First day the habit is due (YYYY-MM-DD, default: today)."`
	End       string `help:"Last day the habit is due (YYYY-MM-DD)."`
	Color     string `help:"Display color (default: the default_color setting)."`
	Icon      string `help:"Icon shown before the name."`
	Details   string `help:"Free-form notes."`
	Unit      string `help:"Unit of the daily target." default:"count"`
	GoalValue int    `help:"Daily target amount." default:"1"`
	Goal      string `help:"Goal (id or name) to link the habit to."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if existing, err := ctx.Store.GetHabitByName(strings.TrimSpace(c.Name)); err == nil && !existing.Archived() {
		return fmt.Errorf("habit with name %q already exists", existing.Name)
	}

	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit := models.NewHabit(c.Name, tr.Now())
	habit.ID = uuid.New().String()
	habit.Icon = c.Icon
	habit.Details = strings.TrimSpace(c.Details)
	habit.Unit = c.Unit
	if c.GoalValue > 0 {
		habit.GoalValue = c.GoalValue
	}
	if settings, err := ctx.Store.GetSettings(); err == nil && settings.DefaultColor != "" {
		habit.Color = settings.DefaultColor
	}
	if c.Color != "" {
		habit.Color = c.Color
	}

	if habit.Category, err = models.ParseCategory(c.Category); err != nil {
		return err
	}
	if habit.Type, err = models.ParseHabitType(c.Type); err != nil {
		return err
	}
	if habit.Days, err = models.ParseWeekdays(c.Days); err != nil {
		return err
	}
	if c.Start != "" {
		habit.StartDate = c.Start
	}
	habit.EndDate = c.End

	if c.Goal != "" {
		goal, err := ctx.FindHabit(c.Goal)
		if err != nil {
			return err
		}
		if !goal.IsGoal {
			return fmt.Errorf("%q: %w", goal.Name, stats.ErrNotAGoal)
		}
		habit.GoalID = goal.ID
	}

	if err := validate(habit); err != nil {
		return err
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	logger.Info("Added habit", "id", habit.ID, "name", habit.Name)
	fmt.Printf("Added habit: %s (%s)\n", cli.HabitLabel(habit), habit.Days)
	return nil
}

type HabitEditCmd struct {
	Habit string `arg:"" help:"Habit id or name."`

	Name      *string `help:"New name."`
	Category  *string `help:"New category."`
	Type      *string `help:"New habit type."`
	Days      *string `help:"New weekdays."`
	Start     *string `help:"New start day (YYYY-MM-DD)."`
	End       *string `help:"New end day (YYYY-MM-DD), empty to clear."`
	Color     *string `help:"New color."`
	Icon      *string `help:"New icon."`
	Details   *string `help:"New notes."`
	Unit      *string `help:"New unit."`
	GoalValue *int    `help:"New daily target amount."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	updated := false
	if c.Name != nil {
		name := strings.TrimSpace(*c.Name)
		if other, err := ctx.Store.GetHabitByName(name); err == nil && other.ID != habit.ID && !other.Archived() {
			return fmt.Errorf("habit with name %q already exists", name)
		}
		habit.Name = name
		updated = true
	}
	if c.Category != nil {
		if habit.Category, err = models.ParseCategory(*c.Category); err != nil {
			return err
		}
		updated = true
	}
	if c.Type != nil {
		if habit.Type, err = models.ParseHabitType(*c.Type); err != nil {
			return err
		}
		updated = true
	}
	if c.Days != nil {
		if habit.IsGoal {
			return errors.New("goals have no schedule")
		}
		if habit.Days, err = models.ParseWeekdays(*c.Days); err != nil {
			return err
		}
		updated = true
	}
	if c.Start != nil {
		habit.StartDate = *c.Start
		updated = true
	}
	if c.End != nil {
		habit.EndDate = *c.End
		updated = true
	}
	if c.Color != nil {
		habit.Color = *c.Color
		updated = true
	}
	if c.Icon != nil {
		habit.Icon = *c.Icon
		updated = true
	}
	if c.Details != nil {
		habit.Details = strings.TrimSpace(*c.Details)
		updated = true
	}
	if c.Unit != nil {
		habit.Unit = *c.Unit
		updated = true
	}
	if c.GoalValue != nil {
		if *c.GoalValue < 1 {
			return errors.New("goal value must be at least 1")
		}
		habit.GoalValue = *c.GoalValue
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}
	if err := validate(habit); err != nil {
		return err
	}
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", cli.HabitLabel(habit))
	return nil
}

func validate(h models.Habit) error {
	if len(h.Details) > constants.MaxHabitDetailsLength {
		return ErrDetailsTooLong
	}
	if !h.IsGoal && h.Days.Empty() {
		return errors.New("habit must be due on at least one weekday")
	}
	return h.Validate()
}

// findActive resolves a habit reference and rejects goals, which cannot be
// completed directly.
func findActive(ctx *cli.Context, ref string) (models.Habit, error) {
	habit, err := ctx.FindHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if habit.IsGoal {
		return models.Habit{}, fmt.Errorf("%q is a goal; mark its linked habits instead", habit.Name)
	}
	return habit, nil
}

func listQuery(archived bool, kind, sort string) storage.HabitQuery {
	return storage.HabitQuery{
		IncludeArchived: archived,
		Kind:            storage.ParseHabitKind(kind),
		Sort:            storage.ParseSortOrder(sort),
	}
}
