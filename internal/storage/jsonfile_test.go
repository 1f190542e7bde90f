package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"moneta/internal/core"
)

func TestJSONFileRoundTrip(t *testing.T) {
	repo, err := NewJSONFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	defer repo.Close()
	ctx := context.Background()

	in := []core.Transaction{
		{ID: "a", Type: core.Income, Amount: "1000", Category: "salary", Desc: "Январь", Date: core.NewDate(2024, 1, 5)},
		{ID: "b", Type: core.Expense, Amount: "300.50", Category: "groceries", Date: core.NewDate(2024, 1, 10)},
	}
	if err := repo.SaveTransactions(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := repo.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID || out[i].Type != in[i].Type ||
			out[i].Amount != in[i].Amount || out[i].Category != in[i].Category ||
			out[i].Desc != in[i].Desc || !out[i].Date.Equal(in[i].Date.Time) {
			t.Fatalf("record %d changed in round trip: %+v != %+v", i, out[i], in[i])
		}
	}
}

func TestJSONFileMissingSlot(t *testing.T) {
	repo, err := NewJSONFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	txs, err := repo.LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("missing slot must not be an error: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty list, got %d", len(txs))
	}
	if _, err := repo.LoadSettings(context.Background()); !errors.Is(err, ErrNoSettings) {
		t.Fatalf("missing settings slot must report ErrNoSettings, got %v", err)
	}
}

func TestJSONFileCorruptSlot(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewJSONFileRepository(dir)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "transactions.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt slot: %v", err)
	}
	if _, err := repo.LoadTransactions(context.Background()); err == nil {
		t.Fatalf("corrupt slot must surface an error for the caller to fail closed on")
	}
}

func TestJSONFileSettingsRoundTrip(t *testing.T) {
	repo, err := NewJSONFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()
	in := core.Settings{Currency: "₽", Language: "ru"}
	if err := repo.SaveSettings(ctx, in); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	out, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if out != in {
		t.Fatalf("settings changed in round trip: %+v != %+v", out, in)
	}
}

func TestJSONFileSaveOverwrites(t *testing.T) {
	repo, err := NewJSONFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()
	first := []core.Transaction{
		{ID: "a", Type: core.Income, Amount: "10", Category: "salary", Date: core.NewDate(2024, 1, 1)},
	}
	if err := repo.SaveTransactions(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveTransactions(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	out, err := repo.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("last write must win, got %d records", len(out))
	}
}
