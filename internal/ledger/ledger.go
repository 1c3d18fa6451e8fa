// Package ledger keeps the dashboard's local state: one SyncData snapshot
// stored as JSON in the local key-value store.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keithsimkin/moneymanager-sub001/internal/filter"
	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
	"github.com/keithsimkin/moneymanager-sub001/internal/logger"
)

// DataKey is the local store key holding the snapshot.
const DataKey = "cashflow_data"

var (
	// ErrNotFound is returned when a transaction ID is unknown.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalid wraps validation failures on incoming transactions.
	ErrInvalid = errors.New("invalid transaction")
)

// Ledger reads and mutates the stored snapshot. Mutations are serialized.
type Ledger struct {
	mu    sync.Mutex
	store localstore.Store
	now   func() time.Time
}

// New returns a Ledger over store.
func New(store localstore.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Snapshot returns the stored state. Nothing stored yet yields an empty
// snapshot.
func (l *Ledger) Snapshot(ctx context.Context) (finance.SyncData, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Replace overwrites the stored state with data.
func (l *Ledger) Replace(ctx context.Context, data finance.SyncData) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(ctx, data)
}

// AddTransaction validates t, assigns it an ID and timestamps, and appends it.
func (l *Ledger) AddTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, error) {
	if err := t.Validate(); err != nil {
		return finance.Transaction{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if t.Category == "" {
		t.Category = finance.CategoryOther
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.load(ctx)
	if err != nil {
		return finance.Transaction{}, err
	}

	now := l.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	data.Transactions = append(data.Transactions, t)

	if err := l.save(ctx, data); err != nil {
		return finance.Transaction{}, err
	}

	log := logger.WithComponent(logger.FromContext(ctx), logger.ComponentLedger)
	log.Debug().
		Str("transaction_id", t.ID).
		Float64("amount", t.Amount).
		Msg("Transaction added")
	return t, nil
}

// DeleteTransaction removes the transaction with the given ID.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(data.Transactions, func(t finance.Transaction) bool { return t.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	data.Transactions = slices.Delete(data.Transactions, i, i+1)
	return l.save(ctx, data)
}

// Transactions returns the stored transactions matching opts, newest date
// first. Transactions whose date does not parse sort last.
func (l *Ledger) Transactions(ctx context.Context, opts filter.Options) ([]finance.Transaction, error) {
	data, err := l.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := filter.Apply(data.Transactions, opts)
	SortNewestFirst(out)
	return out, nil
}

// SortNewestFirst orders txs by date descending, keeping ties stable.
func SortNewestFirst(txs []finance.Transaction) {
	slices.SortStableFunc(txs, func(a, b finance.Transaction) int {
		da, errA := finance.ParseDate(a.Date)
		db, errB := finance.ParseDate(b.Date)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return db.Compare(da)
	})
}

func (l *Ledger) load(ctx context.Context) (finance.SyncData, error) {
	var data finance.SyncData
	raw, err := l.store.Get(ctx, DataKey)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
		data.Normalize()
		return data, nil
	case err != nil:
		return data, fmt.Errorf("reading snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return data, fmt.Errorf("decoding snapshot: %w", err)
	}
	data.Normalize()
	return data, nil
}

func (l *Ledger) save(ctx context.Context, data finance.SyncData) error {
	data.Normalize()
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := l.store.Set(ctx, DataKey, string(raw)); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
