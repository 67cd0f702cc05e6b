package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/utils"
	"github.com/julianstephens/habyss/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	// warnOnly checks never fail the run
	warnOnly bool
	run      func(*cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Habit validation", needsDB: true, run: checkHabits},
	{name: "Completion validation", needsDB: true, run: checkCompletions},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED (not applicable to %s)\n", c.name, ctx.Store.GetConfigPath())
		case err != nil && c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		case err != nil:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		default:
			fmt.Printf("✓ %s: OK\n", c.name)
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

var errSkipped = errors.New("skipped")

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errSkipped
	}
	runner, err := m.MigrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errSkipped
	}
	runner, err := m.MigrationRunner()
	if err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return fmt.Errorf("failed to count pending migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending - run 'habyss migrate'", pending)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return errSkipped
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habyss backup create'")
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(storage.HabitQuery{IncludeArchived: true})
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	result := validation.New().ValidateHabits(habits)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkCompletions(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(storage.HabitQuery{IncludeArchived: true})
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to load completions: %w", err)
	}
	result := validation.New().ValidateCompletions(habits, completions)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if ctx.Now != nil {
		now = ctx.Now()
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if ctx.Config != nil && ctx.Config.Timezone != "" && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone override %q", ctx.Config.Timezone)
	}
	if settings, err := ctx.Store.GetSettings(); err == nil && !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone setting %q - fix it with 'habyss settings set --timezone'", settings.Timezone)
	}
	return nil
}
