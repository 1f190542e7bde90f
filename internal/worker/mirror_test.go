package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/core"
)

type fakeRepo struct {
	txs     []core.Transaction
	loadErr error
}

func (r *fakeRepo) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.txs, nil
}

func (r *fakeRepo) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	r.txs = txs
	return nil
}

func (r *fakeRepo) LoadSettings(ctx context.Context) (core.Settings, error) {
	return core.DefaultSettings(), nil
}

func (r *fakeRepo) SaveSettings(ctx context.Context, s core.Settings) error { return nil }

func (r *fakeRepo) Close() error { return nil }

func sampleTxs() []core.Transaction {
	date := core.NewDate(2024, 3, 15)
	return []core.Transaction{
		{ID: "tx-1", Type: core.Income, Amount: "1000", Category: "salary", Desc: "march pay", Date: date},
		{ID: "tx-2", Type: core.Expense, Amount: "250", Category: "groceries", Date: date},
	}
}

func TestWriteSnapshotRoundTrip(t *testing.T) {
	repo := &fakeRepo{txs: sampleTxs()}
	path := filepath.Join(t.TempDir(), "mirror.json")
	w := NewMirrorWorker(repo, path, nil)

	if err := w.WriteSnapshot(context.Background(), 7); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.Revision != 7 {
		t.Errorf("Revision = %d, want 7", snap.Revision)
	}
	if len(snap.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(snap.Transactions))
	}
	if snap.Transactions[0].ID != "tx-1" || snap.Transactions[1].ID != "tx-2" {
		t.Errorf("transaction order not preserved: %q, %q", snap.Transactions[0].ID, snap.Transactions[1].ID)
	}
	if snap.WrittenAt.IsZero() {
		t.Error("WrittenAt not set")
	}
}

func TestWriteSnapshotEmptyLedger(t *testing.T) {
	repo := &fakeRepo{}
	path := filepath.Join(t.TempDir(), "mirror.json")
	w := NewMirrorWorker(repo, path, nil)

	if err := w.WriteSnapshot(context.Background(), 0); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.Transactions == nil || len(snap.Transactions) != 0 {
		t.Errorf("want empty non-nil transaction list, got %#v", snap.Transactions)
	}
}

func TestHandleEventRewritesMirror(t *testing.T) {
	repo := &fakeRepo{txs: sampleTxs()}
	path := filepath.Join(t.TempDir(), "mirror.json")
	w := NewMirrorWorker(repo, path, nil)

	msg := amqp.NewLedgerEventMessage(amqp.OpAdd, "tx-1", 3)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.Revision != 3 {
		t.Errorf("Revision = %d, want 3", snap.Revision)
	}

	// A later event replaces the snapshot wholesale.
	repo.txs = repo.txs[:1]
	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(amqp.OpRemove, "tx-2", 4)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	snap, err = ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(snap.Transactions) != 1 {
		t.Errorf("got %d transactions after remove, want 1", len(snap.Transactions))
	}
}

func TestHandleEventLoadFailure(t *testing.T) {
	repo := &fakeRepo{loadErr: errors.New("backend down")}
	path := filepath.Join(t.TempDir(), "mirror.json")
	w := NewMirrorWorker(repo, path, nil)

	err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(amqp.OpAdd, "tx-1", 1))
	if err == nil {
		t.Fatal("expected error when storage load fails")
	}
}

func TestStartupSync(t *testing.T) {
	repo := &fakeRepo{txs: sampleTxs()}
	path := filepath.Join(t.TempDir(), "nested", "dir", "mirror.json")
	w := NewMirrorWorker(repo, path, nil)

	if err := w.StartupSync(context.Background()); err != nil {
		t.Fatalf("StartupSync: %v", err)
	}
	snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(snap.Transactions) != 2 {
		t.Errorf("got %d transactions, want 2", len(snap.Transactions))
	}
	if time.Since(snap.WrittenAt) > time.Minute {
		t.Errorf("WrittenAt too old: %v", snap.WrittenAt)
	}
}
