package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/utils"
)

var (
	ErrInvalidWindow = fmt.Errorf("consistency window must be between 1 and %d days", constants.MaxConsistencyWindow)
	ErrEmptyColor    = errors.New("default color cannot be empty")
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone          *string `help:"IANA timezone used to decide calendar days, or Local."`
	ConsistencyWindow *int    `help:"Default consistency window in days."`
	DefaultColor      *string `help:"Color given to new habits."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println(cli.TitleStyle.Render("Current Settings:"))
		fmt.Printf("  Timezone:            %s\n", settings.Timezone)
		fmt.Printf("  Consistency Window:  %d days\n", settings.ConsistencyWindowDays)
		fmt.Printf("  Default Color:       %s\n", settings.DefaultColor)
		if ctx.Config != nil && ctx.Config.Timezone != "" {
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("\n  Timezone overridden by environment: %s", ctx.Config.Timezone)))
		}
		return nil
	}

	updated := false
	if c.Timezone != nil {
		tz := strings.TrimSpace(*c.Timezone)
		if !utils.ValidateTimezone(tz) {
			return fmt.Errorf("invalid timezone %q", tz)
		}
		settings.Timezone = tz
		updated = true
	}
	if c.ConsistencyWindow != nil {
		if *c.ConsistencyWindow < 1 || *c.ConsistencyWindow > constants.MaxConsistencyWindow {
			return ErrInvalidWindow
		}
		settings.ConsistencyWindowDays = *c.ConsistencyWindow
		updated = true
	}
	if c.DefaultColor != nil {
		color := strings.TrimSpace(*c.DefaultColor)
		if color == "" {
			return ErrEmptyColor
		}
		settings.DefaultColor = color
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
