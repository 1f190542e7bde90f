// Package store owns the authoritative in-memory transaction list. Every
// view is derived from it; storage only mirrors it. Mutations apply to
// memory first and are flushed to the repository by a single persister
// goroutine, so writes reach storage in mutation order and a slow disk
// never blocks the caller.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"moneta/internal/core"
	"moneta/internal/log"
	"moneta/internal/storage"
)

// EventPublisher announces applied mutations to interested consumers
// (the mirror worker). Publishing is best effort.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, op, txID string, revision uint64) error
}

// persistJob is one ordered write. Exactly one of the fields is set.
type persistJob struct {
	txs      []core.Transaction
	settings *core.Settings
}

type Ledger struct {
	mu       sync.Mutex
	txs      []core.Transaction
	settings core.Settings
	defaults core.Settings
	revision uint64
	closed   bool

	repo      storage.Repository
	publisher EventPublisher
	logger    *log.Logger
	newID     func() string

	persistCh chan persistJob
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a ledger over the given repository. publisher may be nil.
// defaults are the display settings used until the user stores their
// own; invalid defaults fall back to the built-in ones.
func New(repo storage.Repository, publisher EventPublisher, defaults core.Settings, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if defaults.Validate() != nil {
		defaults = core.DefaultSettings()
	}
	l := &Ledger{
		settings:  defaults,
		defaults:  defaults,
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		newID:     uuid.NewString,
		persistCh: make(chan persistJob, 64),
		done:      make(chan struct{}),
	}
	go l.persistLoop()
	return l
}

// Load reads both slots from the repository. Corrupt or unreadable data
// fails closed: the ledger starts empty rather than propagating a broken
// state into the views.
func (l *Ledger) Load(ctx context.Context) {
	txs, err := l.repo.LoadTransactions(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "Falling back to an empty ledger",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
		txs = nil
	}
	settings, err := l.repo.LoadSettings(ctx)
	switch {
	case errors.Is(err, storage.ErrNoSettings):
		settings = l.defaults
	case err != nil:
		l.logger.WarnContext(ctx, "Falling back to default settings",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
		settings = l.defaults
	}

	l.mu.Lock()
	l.txs = txs
	l.settings = settings
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad, "transactions", len(txs))
}

// Add validates the draft, assigns it a fresh id and prepends it, so new
// transactions sort first before any date-based ordering downstream. The
// draft's ID field is ignored.
func (l *Ledger) Add(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	draft.ID = l.newID()
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}

	l.mu.Lock()
	l.txs = append([]core.Transaction{draft}, l.txs...)
	rev := l.bumpAndEnqueueLocked()
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Transaction added",
		log.FieldOperation, log.OpAdd,
		log.FieldTxID, draft.ID,
		log.FieldTxType, string(draft.Type),
		log.FieldCategory, draft.Category,
		log.FieldAmount, draft.Amount)
	l.publish(ctx, log.OpAdd, draft.ID, rev)
	return draft, nil
}

// Update replaces the mutable fields of the matching record. Type and ID
// are never altered. Returns ErrNotFound, mutating nothing, when the id
// is unknown.
func (l *Ledger) Update(ctx context.Context, id string, patch core.Patch) (core.Transaction, error) {
	l.mu.Lock()
	idx := -1
	for i := range l.txs {
		if l.txs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return core.Transaction{}, core.ErrNotFound
	}

	updated := l.txs[idx]
	updated.Amount = patch.Amount
	updated.Category = patch.Category
	updated.Desc = patch.Desc
	updated.Date = patch.Date
	if err := updated.Validate(); err != nil {
		l.mu.Unlock()
		return core.Transaction{}, err
	}

	l.txs[idx] = updated
	rev := l.bumpAndEnqueueLocked()
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Transaction updated",
		log.FieldOperation, log.OpUpdate, log.FieldTxID, id)
	l.publish(ctx, log.OpUpdate, id, rev)
	return updated, nil
}

// Remove deletes the matching record; unknown ids return ErrNotFound
// without touching the list.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	idx := -1
	for i := range l.txs {
		if l.txs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return core.ErrNotFound
	}

	l.txs = append(l.txs[:idx], l.txs[idx+1:]...)
	rev := l.bumpAndEnqueueLocked()
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Transaction removed",
		log.FieldOperation, log.OpRemove, log.FieldTxID, id)
	l.publish(ctx, log.OpRemove, id, rev)
	return nil
}

// Transactions returns an immutable snapshot for the aggregate functions.
// Before Load completes this is simply the empty list.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Revision counts applied mutations; derived-view caches key on it.
func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

// Settings returns the current display settings.
func (l *Ledger) Settings() core.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings
}

// SetSettings validates and stores new display settings.
func (l *Ledger) SetSettings(ctx context.Context, s core.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.settings = s
	if !l.closed {
		settings := s
		l.persistCh <- persistJob{settings: &settings}
	}
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Settings updated",
		"currency", s.Currency, "language", s.Language)
	return nil
}

// Close drains pending writes and stops the persister. The repository
// itself is closed by whoever created it. Mutations arriving after Close
// still apply to memory, just without a storage write.
func (l *Ledger) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.persistCh)
		l.mu.Unlock()
		<-l.done
	})
}

// bumpAndEnqueueLocked advances the revision and queues a snapshot write.
// Callers hold the mutex, which is what keeps the queue in mutation order
// and makes the send safe against a concurrent Close.
func (l *Ledger) bumpAndEnqueueLocked() uint64 {
	l.revision++
	if !l.closed {
		snapshot := make([]core.Transaction, len(l.txs))
		copy(snapshot, l.txs)
		l.persistCh <- persistJob{txs: snapshot}
	}
	return l.revision
}

func (l *Ledger) persistLoop() {
	defer close(l.done)
	for job := range l.persistCh {
		// failures are tolerated: memory stays correct and the next
		// successful write catches storage up
		if job.settings != nil {
			if err := l.repo.SaveSettings(context.Background(), *job.settings); err != nil {
				l.logger.Warn("Settings write failed",
					log.FieldOperation, log.OpPersist, log.FieldError, err)
			}
			continue
		}
		if err := l.repo.SaveTransactions(context.Background(), job.txs); err != nil {
			l.logger.Warn("Ledger write failed",
				log.FieldOperation, log.OpPersist, log.FieldError, err)
		}
	}
}

func (l *Ledger) publish(ctx context.Context, op, txID string, revision uint64) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishLedgerEvent(ctx, op, txID, revision); err != nil {
		l.logger.WarnContext(ctx, "Ledger event publish failed",
			log.FieldOperation, op, log.FieldTxID, txID, log.FieldError, err)
	}
}
