package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing SQLite database before initializing."`
	Source string `help:"Database path or connection string to copy habits and completions from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habyss storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source)
		if err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
		if err := source.Load(); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer source.Close()

		if err := copyData(source, ctx.Store); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.SQLiteStore(); !ok {
		return fmt.Errorf("--force is only supported for SQLite databases")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyData copies settings, habits (goals first so links resolve) and
// completions from src into dst.
func copyData(src, dst storage.Provider) error {
	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying habits...")
	copied := 0
	for _, kind := range []storage.HabitKind{storage.KindGoals, storage.KindHabits} {
		habits, err := src.ListHabits(storage.HabitQuery{Kind: kind, IncludeArchived: true})
		if err != nil {
			return fmt.Errorf("failed to list habits from source: %w", err)
		}
		for _, h := range habits {
			if err := dst.AddHabit(h); err != nil {
				return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
			}
			copied++
		}
	}
	fmt.Printf("    Copied %d habits\n", copied)

	fmt.Println("  Copying completions...")
	completions, err := src.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to get completions from source: %w", err)
	}
	for _, c := range completions {
		if err := dst.AddCompletion(c); err != nil {
			return fmt.Errorf("failed to add completion %s: %w", c.ID, err)
		}
	}
	fmt.Printf("    Copied %d completions\n", len(completions))
	return nil
}
