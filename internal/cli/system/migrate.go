package system

import (
	"fmt"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/migration"
)

// migrator is implemented by the SQL-backed stores.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
	MigrationRunner() (*migration.Runner, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("migrate is not supported for %s", ctx.Store.GetConfigPath())
	}

	count, err := m.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
