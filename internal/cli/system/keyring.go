package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/keyring"
	"github.com/julianstephens/habyss/internal/storage/postgres"
)

// KeyHelp fills the ${key_help} placeholder of the keyring commands.
const KeyHelp = "Secret to manage: database-connection or metrics-password."

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Value string `arg:"" help:"Secret value, e.g. a PostgreSQL connection string."`
	Key   string `short:"k" default:"database-connection" help:"${key_help}"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Key)
	if err != nil {
		return err
	}

	if key == keyring.KeyConnection {
		if !postgres.IsConnString(cmd.Value) && !strings.Contains(cmd.Value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(key, cmd.Value); err != nil {
		return err
	}

	fmt.Printf("✓ %s stored successfully in OS keyring\n", key.Description())
	if key == keyring.KeyConnection {
		fmt.Println("  Use it with --db=keyring")
	}
	return nil
}

// KeyringGetCmd prints a stored secret with any password masked
type KeyringGetCmd struct {
	Key string `short:"k" default:"database-connection" help:"${key_help}"`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Key)
	if err != nil {
		return err
	}
	value, err := keyring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'habyss keyring set' to store one", key.Description())
		}
		return err
	}

	fmt.Printf("%s retrieved from keyring:\n", key.Description())
	if key == keyring.KeyConnection {
		fmt.Println(maskPassword(value))
	} else {
		fmt.Println("****")
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Key string `short:"k" default:"database-connection" help:"${key_help}"`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Key)
	if err != nil {
		return err
	}
	if err := keyring.Delete(key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", key.Description())
		}
		return err
	}
	fmt.Printf("✓ %s deleted from OS keyring\n", key.Description())
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	for _, key := range keyring.Keys() {
		_, err := keyring.Get(key)
		switch {
		case err == nil:
			fmt.Printf("✓ %s is stored in keyring\n", key.Description())
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ No %s stored in keyring\n", key.Description())
		default:
			fmt.Printf("❌ %s: %v\n", key.Description(), err)
		}
	}
	return nil
}

// maskPassword hides the password of a URL or DSN connection string
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		idx := strings.Index(connStr, "://")
		remaining := connStr[idx+3:]
		if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
			userInfo := remaining[:atIdx]
			if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
				return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + remaining[atIdx:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
