// Package storage persists the ledger. Every backend stores the same two
// slots: the full transaction list, rewritten as a whole after each
// mutation, and the display settings. The in-memory ledger is the source
// of truth; storage is a write-behind mirror of it.
package storage

import (
	"context"
	"errors"

	"moneta/internal/core"
)

// ErrNoSettings reports an empty settings slot. The ledger substitutes
// its configured defaults; backends never invent settings themselves.
var ErrNoSettings = errors.New("no settings stored")

// Repository is the outbound port the ledger persists through.
type Repository interface {
	// LoadTransactions reads the persisted list. A missing slot yields an
	// empty list with no error; a corrupt slot yields an error the caller
	// recovers from by starting empty.
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)

	// SaveTransactions rewrites the whole list.
	SaveTransactions(ctx context.Context, txs []core.Transaction) error

	// LoadSettings reads the display settings slot; a missing slot yields
	// ErrNoSettings.
	LoadSettings(ctx context.Context) (core.Settings, error)

	// SaveSettings rewrites the settings slot.
	SaveSettings(ctx context.Context, s core.Settings) error

	Close() error
}
