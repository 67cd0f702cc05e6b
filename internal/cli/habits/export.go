package habits

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/models"
	"github.com/julianstephens/habyss/internal/storage"
)

// Export is the document written by the export command.
type Export struct {
	Version     string              `json:"version"`
	ExportedAt  time.Time           `json:"exported_at"`
	Settings    models.Settings     `json:"settings"`
	Habits      []models.Habit      `json:"habits"`
	Completions []models.Completion `json:"completions"`
}

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc, err := buildExport(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if c.Output != "" {
		fmt.Printf("Exported %d habits and %d completions to %s\n", len(doc.Habits), len(doc.Completions), c.Output)
	}
	return nil
}

func buildExport(ctx *cli.Context) (Export, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return Export{}, fmt.Errorf("failed to get settings: %w", err)
	}
	habits, err := ctx.Store.ListHabits(storage.HabitQuery{IncludeArchived: true})
	if err != nil {
		return Export{}, fmt.Errorf("failed to list habits: %w", err)
	}
	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		return Export{}, fmt.Errorf("failed to load completions: %w", err)
	}

	if habits == nil {
		habits = []models.Habit{}
	}
	if completions == nil {
		completions = []models.Completion{}
	}

	now := time.Now
	if ctx.Now != nil {
		now = ctx.Now
	}
	return Export{
		Version:     constants.Version,
		ExportedAt:  now().UTC(),
		Settings:    settings,
		Habits:      habits,
		Completions: completions,
	}, nil
}
