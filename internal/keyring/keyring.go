// Package keyring keeps secrets that must not appear in flags, environment
// files or connection strings: the PostgreSQL DSN and the /metrics password.
package keyring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habyss/internal/constants"
)

var (
	// ErrNotFound is returned when nothing is stored under the key
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownKey is returned for keys habyss does not manage
	ErrUnknownKey = errors.New("unknown keyring key")
)

// Key names a secret stored under the habyss service.
type Key string

const (
	KeyConnection      Key = constants.DefaultKeyringUser
	KeyMetricsPassword Key = "metrics-password"
)

var knownKeys = map[Key]string{
	KeyConnection:      "PostgreSQL connection string",
	KeyMetricsPassword: "password protecting the /metrics endpoint",
}

// ParseKey validates a user-supplied key name.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if _, ok := knownKeys[k]; !ok {
		return "", fmt.Errorf("%w: %q (known: %v)", ErrUnknownKey, s, Keys())
	}
	return k, nil
}

// Keys lists the managed keys in a stable order.
func Keys() []Key {
	keys := make([]Key, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (k Key) Description() string {
	return knownKeys[k]
}

// Get reads the secret stored under k.
func Get(k Key) (string, error) {
	value, err := keyring.Get(constants.AppName, string(k))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores value under k, replacing any previous secret.
func Set(k Key, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", k.Description())
	}
	if err := keyring.Set(constants.AppName, string(k), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", k.Description(), err)
	}
	return nil
}

// Delete removes the secret stored under k.
func Delete(k Key) error {
	if err := keyring.Delete(constants.AppName, string(k)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", k.Description(), err)
	}
	return nil
}

// Lookup is Get that treats a missing secret as empty.
func Lookup(k Key) (string, error) {
	value, err := Get(k)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}

// IsAvailable checks whether the OS keyring answers at all. A missing probe
// key still counts as available.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
