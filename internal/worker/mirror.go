// Package worker maintains a local backup copy of the ledger. It listens
// for mutation events and rewrites a snapshot file from the authoritative
// storage, so losing the primary slot never loses the history.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/log"
	"moneta/internal/storage"
)

// Snapshot is the mirror file layout.
type Snapshot struct {
	WrittenAt    time.Time          `json:"written_at"`
	Revision     uint64             `json:"revision"`
	Transactions []core.Transaction `json:"transactions"`
}

type MirrorWorker struct {
	repo   storage.Repository
	path   string
	logger *log.Logger
}

func NewMirrorWorker(repo storage.Repository, path string, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		repo:   repo,
		path:   path,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent rewrites the mirror after any mutation. The event only
// tells us something changed; the list itself comes from storage.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.InfoContext(ctx, "Mirroring ledger",
		log.FieldOperation, log.OpMirror,
		"event_op", msg.Op,
		log.FieldTxID, msg.TxID,
		log.FieldRevision, msg.Revision)
	return w.WriteSnapshot(ctx, msg.Revision)
}

// StartupSync writes an initial snapshot so the mirror is current even if
// events were missed while the worker was down.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Performing startup mirror sync",
		log.FieldOperation, log.OpStartup)
	return w.WriteSnapshot(ctx, 0)
}

// WriteSnapshot reads the current list from storage and atomically swaps
// the mirror file.
func (w *MirrorWorker) WriteSnapshot(ctx context.Context, revision uint64) error {
	txs, err := w.repo.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}

	snap := Snapshot{
		WrittenAt:    time.Now().UTC(),
		Revision:     revision,
		Transactions: txs,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create mirror directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "mirror-*.json")
	if err != nil {
		return fmt.Errorf("create temp mirror: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp mirror: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("swap mirror: %w", err)
	}

	w.logger.InfoContext(ctx, "Mirror snapshot written",
		log.FieldOperation, log.OpMirror,
		"transactions", len(txs),
		"path", w.path)
	return nil
}

// ReadSnapshot loads a mirror file, for restore tooling and tests.
func ReadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read mirror: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode mirror: %w", err)
	}
	return snap, nil
}
