package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"moneta/internal/core"
)

// Slot file names under the data directory. Each slot is one named JSON
// document.
const (
	transactionsSlot = "transactions.json"
	settingsSlot     = "settings.json"
)

// JSONFileRepository keeps each slot in a single JSON file and swaps new
// content in with an atomic rename, so a crash mid-write leaves the
// previous fully-written list in place.
type JSONFileRepository struct {
	dir string
}

func NewJSONFileRepository(dir string) (*JSONFileRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONFileRepository{dir: dir}, nil
}

func (r *JSONFileRepository) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, transactionsSlot))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transactions slot: %w", err)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions slot: %w", err)
	}
	return txs, nil
}

func (r *JSONFileRepository) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	return r.writeSlot(transactionsSlot, data)
}

func (r *JSONFileRepository) LoadSettings(_ context.Context) (core.Settings, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, settingsSlot))
	if os.IsNotExist(err) {
		return core.Settings{}, ErrNoSettings
	}
	if err != nil {
		return core.DefaultSettings(), fmt.Errorf("read settings slot: %w", err)
	}
	var s core.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return core.DefaultSettings(), fmt.Errorf("decode settings slot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return core.DefaultSettings(), fmt.Errorf("validate settings slot: %w", err)
	}
	return s, nil
}

func (r *JSONFileRepository) SaveSettings(_ context.Context, s core.Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return r.writeSlot(settingsSlot, data)
}

func (r *JSONFileRepository) Close() error {
	return nil
}

func (r *JSONFileRepository) writeSlot(slot string, data []byte) error {
	tmp, err := os.CreateTemp(r.dir, slot+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp slot: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(r.dir, slot)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("swap slot %s: %w", slot, err)
	}
	return nil
}
