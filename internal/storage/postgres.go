package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moneta/internal/core"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    id       TEXT PRIMARY KEY,
    type     TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    amount   TEXT NOT NULL,
    category TEXT NOT NULL,
    "desc"   TEXT NOT NULL DEFAULT '',
    date     TEXT NOT NULL,
    position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date);
CREATE TABLE IF NOT EXISTS settings (
    slot  TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// PostgresRepository stores the ledger in Postgres through a pgx pool.
// Same contract as the other backends: full-list rewrite per save.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, url string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, amount, category, "desc", date FROM transactions ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var typ, date string
		if err := rows.Scan(&tx.ID, &typ, &tx.Amount, &tx.Category, &tx.Desc, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TxType(typ)
		d, err := time.Parse(core.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		tx.Date = core.Date{Time: d}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *PostgresRepository) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer dbtx.Rollback(ctx)

	if _, err := dbtx.Exec(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for i, tx := range txs {
		if _, err := dbtx.Exec(ctx,
			`INSERT INTO transactions (id, type, amount, category, "desc", date, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			tx.ID, string(tx.Type), tx.Amount, tx.Category, tx.Desc, tx.Date.String(), i); err != nil {
			return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
		}
	}
	if err := dbtx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (r *PostgresRepository) LoadSettings(ctx context.Context) (core.Settings, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE slot = $1`, settingsSlot).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Settings{}, ErrNoSettings
	}
	if err != nil {
		return core.DefaultSettings(), fmt.Errorf("query settings: %w", err)
	}
	var s core.Settings
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return core.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return core.DefaultSettings(), fmt.Errorf("validate settings: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	value, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO settings (slot, value) VALUES ($1, $2)
		 ON CONFLICT (slot) DO UPDATE SET value = EXCLUDED.value`,
		settingsSlot, string(value))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}
