// Package backend selects and opens the storage backend the ledger
// persists through.
package backend

import (
	"fmt"

	"moneta/internal/config"
)

// Type names a storage backend.
type Type string

const (
	JSONFile Type = "jsonfile"
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case JSONFile, SQLite, Postgres:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{JSONFile, SQLite, Postgres}
}

// Config holds what each backend needs to open.
type Config struct {
	Type Type

	// jsonfile
	DataDir string

	// sqlite
	SQLiteDBPath string

	// postgres
	PostgresURL string
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:         t,
		DataDir:      appConfig.DataDir,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresURL:  appConfig.PostgresURL,
	}, nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case JSONFile:
		if c.DataDir == "" {
			return fmt.Errorf("data directory is required for the jsonfile backend")
		}
	case SQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for the sqlite backend")
		}
	case Postgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for the postgres backend")
		}
	}
	return nil
}
