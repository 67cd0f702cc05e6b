package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/cli/backups"
	"github.com/julianstephens/habyss/internal/cli/goals"
	"github.com/julianstephens/habyss/internal/cli/habits"
	"github.com/julianstephens/habyss/internal/cli/settings"
	"github.com/julianstephens/habyss/internal/cli/system"
	"github.com/julianstephens/habyss/internal/config"
	"github.com/julianstephens/habyss/internal/constants"
	apperrors "github.com/julianstephens/habyss/internal/errors"
	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/storage/postgres"
)

var CLI struct {
	Version  kong.VersionFlag
	DB       string `name:"db" help:"SQLite path, PostgreSQL connection string, :memory: or keyring. PostgreSQL credentials must NOT be embedded; use the OS keyring, .pgpass or PGPASSWORD instead." default:"${db}"`
	Timezone string `help:"IANA timezone overriding the stored setting." default:"${timezone}"`
	Debug    bool   `help:"Log debug output to stderr." default:"${debug}"`

	Init    system.InitCmd    `cmd:"" help:"Initialize habyss storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the JSON API."`

	Today  habits.HabitTodayCmd `cmd:"" help:"Show today's habits." default:"1"`
	Mark   habits.HabitMarkCmd  `cmd:"" help:"Toggle a habit's completion for a day."`
	Log    habits.HabitLogCmd   `cmd:"" help:"Show habit log (ASCII history)."`
	Stats  habits.HabitStatsCmd `cmd:"" help:"Show streaks and consistency."`
	Export habits.ExportCmd     `cmd:"" help:"Export habits and completions as JSON."`

	Habit struct {
		Add       habits.HabitAddCmd       `cmd:"" help:"Add a new habit."`
		Edit      habits.HabitEditCmd      `cmd:"" help:"Edit a habit."`
		List      habits.HabitListCmd      `cmd:"" help:"List habits." default:"1"`
		Archive   habits.HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
		Unarchive habits.HabitUnarchiveCmd `cmd:"" help:"Unarchive a habit."`
		Delete    habits.HabitDeleteCmd    `cmd:"" help:"Delete a habit and its history."`
	} `cmd:"" help:"Manage habits."`
	Goal struct {
		Add    goals.GoalAddCmd    `cmd:"" help:"Add a new goal."`
		List   goals.GoalListCmd   `cmd:"" help:"List goals with progress." default:"1"`
		Show   goals.GoalShowCmd   `cmd:"" help:"Show a goal and its linked habits."`
		Link   goals.GoalLinkCmd   `cmd:"" help:"Link a habit to a goal."`
		Unlink goals.GoalUnlinkCmd `cmd:"" help:"Unlink a habit from its goal."`
	} `cmd:"" help:"Manage goals."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
}

// skipLoad lists commands that open the store themselves.
var skipLoad = map[string]bool{
	"init":   true,
	"doctor": true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		apperrors.Fatal(fmt.Errorf("failed to load .env: %w", err))
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker: daily check-ins, streaks and consistency."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"db":       cfg.DB,
			"timezone": cfg.Timezone,
			"debug":    strconv.FormatBool(cfg.Debug),
			"log_days": strconv.Itoa(constants.DefaultLogWindowDays),
			"key_help": system.KeyHelp,
		},
	)
	cfg.DB = CLI.DB
	cfg.Timezone = CLI.Timezone
	cfg.Debug = CLI.Debug

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		Level:     cfg.LogLevel,
		ConfigDir: cfg.ConfigDir(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cli.OpenStore(cfg.DB)
	if err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
			fmt.Fprintln(os.Stderr, cli.CredentialsHelp())
			os.Exit(apperrors.ExitFailure)
		}
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
	}

	if selected := ctx.Selected(); selected == nil || !skipLoad[selected.Name] {
		if err := store.Load(); err != nil {
			store.Close()
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
