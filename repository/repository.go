// Package repository caches one parsed snapshot of a ledger fetched through
// a caller-supplied Storage.
//
// The snapshot is populated lazily on first access and replaced atomically on
// a forced refresh. Concurrent first accesses share a single fetch and parse;
// a forced refresh always fetches.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/robinvdvleuten/jointledger/ast"
	"github.com/robinvdvleuten/jointledger/parser"
	"github.com/robinvdvleuten/jointledger/telemetry"
)

// Storage supplies the raw ledger text.
type Storage interface {
	// FetchLedgerContent returns the full ledger text.
	FetchLedgerContent(ctx context.Context) (string, error)

	// LastModified returns when the content last changed, if known.
	LastModified() (time.Time, bool)
}

// Snapshot is one parsed ledger. Snapshots are never modified after they are
// published; callers must not modify the returned slices.
type Snapshot struct {
	Transactions []*ast.Transaction
	Budgets      []*ast.Budget
	LastModified time.Time
	HasModified  bool
	FetchedAt    time.Time
}

// Repository owns the cached snapshot. A Repository is safe for concurrent
// use; construct one with New and share the pointer.
type Repository struct {
	storage  Storage
	logger   *slog.Logger
	filename string
	now      func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
	// loads counts started loads; published is the load that produced
	// snapshot. A slower, older load never replaces a newer snapshot.
	loads     uint64
	published uint64

	group  singleflight.Group
	forced atomic.Uint64
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithFilename records a filename in the position of parsed transactions.
func WithFilename(filename string) Option {
	return func(r *Repository) {
		r.filename = filename
	}
}

// New creates a repository reading from storage. Nothing is fetched until
// the first access.
func New(storage Storage, opts ...Option) *Repository {
	r := &Repository{
		storage: storage,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const loadKey = "load"

// Snapshot returns the cached snapshot, fetching it first when nothing is
// cached or forceRefresh is set.
//
// Concurrent first accesses share one fetch. A forced call always fetches
// on its own, so content changed while another fetch was in flight is
// never missed. The shared fetch is not cancelled when the caller that
// started it goes away; every caller still stops waiting when its own ctx
// is done.
func (r *Repository) Snapshot(ctx context.Context, forceRefresh bool) (*Snapshot, error) {
	key := loadKey
	if forceRefresh {
		key = fmt.Sprintf("refresh-%d", r.forced.Add(1))
	} else {
		r.mu.RLock()
		s := r.snapshot
		r.mu.RUnlock()
		if s != nil {
			return s, nil
		}
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		if !forceRefresh {
			r.mu.RLock()
			s := r.snapshot
			r.mu.RUnlock()
			if s != nil {
				return s, nil
			}
		}
		return r.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load fetches and parses the ledger, then publishes the new snapshot. On
// failure the previous snapshot stays in place.
func (r *Repository) load(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	r.loads++
	seq := r.loads
	r.mu.Unlock()

	timer := telemetry.StartTimer(ctx, "repository.refresh")
	defer timer.End()

	fetchTimer := timer.Child("storage.fetch")
	content, err := r.storage.FetchLedgerContent(ctx)
	fetchTimer.End()
	if err != nil {
		r.logger.Error("fetching ledger failed", "error", err)
		return nil, err
	}

	tree := parser.ParseBytesWithFilename(ctx, r.filename, []byte(content))

	s := &Snapshot{
		Transactions: tree.Transactions,
		Budgets:      tree.Budgets,
		FetchedAt:    r.now(),
	}
	s.LastModified, s.HasModified = r.storage.LastModified()

	r.mu.Lock()
	if seq > r.published {
		r.snapshot = s
		r.published = seq
	}
	r.mu.Unlock()

	r.logger.Debug("ledger loaded",
		"transactions", len(s.Transactions),
		"budgets", len(s.Budgets))

	return s, nil
}

// Refresh discards the cached snapshot and fetches a new one.
func (r *Repository) Refresh(ctx context.Context) (*Snapshot, error) {
	return r.Snapshot(ctx, true)
}

// Transactions returns the cached transactions in file order.
func (r *Repository) Transactions(ctx context.Context, forceRefresh bool) ([]*ast.Transaction, error) {
	s, err := r.Snapshot(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return s.Transactions, nil
}

// Budgets returns the cached budgets in file order.
func (r *Repository) Budgets(ctx context.Context, forceRefresh bool) ([]*ast.Budget, error) {
	s, err := r.Snapshot(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return s.Budgets, nil
}

// LastModified returns the modification time reported by storage during the
// most recent successful fetch. It reports false when nothing has been
// fetched yet or storage did not know.
func (r *Repository) LastModified() (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return time.Time{}, false
	}
	return r.snapshot.LastModified, r.snapshot.HasModified
}
