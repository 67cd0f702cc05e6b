package backups

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habyss/internal/cli"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	info, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Backup created: %s\n", info.Name)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), mgr.Retention())
	for _, b := range backups {
		fmt.Printf("  %s  %s  (%s, %s)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.Name,
			humanize.Bytes(uint64(b.Size)),
			cli.MutedStyle.Render(humanize.Time(b.Timestamp)),
		)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or file name of the backup to restore, or 'latest'."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}

	var backupPath string
	if c.BackupFile == "latest" {
		latest, err := mgr.Latest()
		if err != nil {
			return err
		}
		backupPath = latest.Path
	} else {
		backupPath, err = mgr.Resolve(c.BackupFile)
		if err != nil {
			return err
		}
	}

	if !c.Yes {
		fmt.Println(cli.WarnStyle.Render("⚠️  WARNING: This will replace your current database with the backup."))
		fmt.Println("   Stop any running 'habyss serve' process before restoring.")
		ok, err := ctx.Confirm("Restore from "+backupPath+"?", "A backup of the current database is taken first.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if previous != "" {
		fmt.Printf("  Previous database saved as: %s\n", previous)
	}
	return nil
}
