// Package store implements the state synchronization pattern shared by every
// resource view of the admin dashboard: a paginated list of items fetched
// from the backend, loading and error flags, and a per-item pending marker
// for destructive or state-toggling mutations.
//
// One Store exists per resource kind. The typed stores in the root package
// supply the HTTP calls; Store owns the protocol around them:
//
//   - a list fetch replaces items and pagination wholesale on success and
//     leaves them untouched on failure, so a failed refresh never destroys
//     data already on screen;
//   - responses of superseded fetches are discarded using a per-store
//     generation counter, so a slow page-1 response can never overwrite a
//     faster page-2 response that committed after it;
//   - at most one mutation is in flight per store, and the pending marker is
//     cleared on every exit path, success or failure;
//   - a successful mutation applies the server-confirmed result, never a
//     locally computed guess.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
)

// NetworkErrorMessage is the store-level message for requests that never
// completed. Always recoverable by retrying.
const NetworkErrorMessage = "Network error. Please try again."

var (
	// ErrMutationPending is returned when a mutation is requested while
	// another one is still in flight on the same store. Callers disable
	// the triggering control for the pending item; requests are rejected,
	// never queued.
	ErrMutationPending = errors.New("store: another mutation is still pending")

	// ErrSuperseded is returned by FetchList when a newer fetch was
	// started before this one resolved. The result has been discarded.
	ErrSuperseded = errors.New("store: fetch superseded by a newer one")
)

// Pagination mirrors the backend's list envelope. Count is
// server-authoritative.
type Pagination struct {
	Count       int
	Page        int
	HasNext     bool
	HasPrevious bool
}

// Fetch loads one page of items. Implementations perform the actual HTTP
// call and translate the envelope into items plus pagination.
type Fetch[T any] func(ctx context.Context) ([]T, Pagination, error)

// Commit applies a server-confirmed mutation result to the current items
// under the store lock. It may adjust pagination (deletes decrement Count).
type Commit[T any] func(items []T, pg *Pagination) []T

// MutationPhase tracks the explicit lifecycle of the most recent mutation.
type MutationPhase int

const (
	MutationIdle MutationPhase = iota
	MutationPending
	MutationCommitted
	MutationRolledBack
)

// Store holds the synchronized state for one resource kind. Safe for
// concurrent use; accessors return snapshots.
type Store[T any] struct {
	mu         sync.Mutex
	items      []T
	loading    bool
	errMsg     string
	pagination Pagination
	pendingID  int64
	pendingSet bool
	phase      MutationPhase
	gen        uint64

	idOf     func(T) int64
	onChange func()
	log      logger.Logger
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithLogger sets the store's logger.
func WithLogger[T any](l logger.Logger) Option[T] {
	return func(s *Store[T]) { s.log = l }
}

// WithOnChange registers a callback fired after every state transition,
// outside the store lock. This is the UI notification hook.
func WithOnChange[T any](fn func()) Option[T] {
	return func(s *Store[T]) { s.onChange = fn }
}

// New creates a Store for items identified by idOf.
func New[T any](idOf func(T) int64, opts ...Option[T]) *Store[T] {
	s := &Store[T]{idOf: idOf, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// FetchList runs fetch and commits its result. On start the loading flag is
// set and the previous error cleared. On success items and pagination are
// replaced. On failure the error message is recorded and prior items stay
// untouched. Either way loading is cleared, unless a newer fetch has taken
// over in the meantime, in which case the result is dropped and
// ErrSuperseded returned.
func (s *Store[T]) FetchList(ctx context.Context, fetch Fetch[T]) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.notify()

	items, pg, err := fetch(ctx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.loading = false
	if err != nil {
		s.errMsg = messageFor(err)
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.items = items
	s.pagination = pg
	s.mu.Unlock()
	s.notify()
	return nil
}

// Mutate runs one guarded mutation against the item identified by id.
//
// The protocol: mark the item pending, run the remote call, on success apply
// the server truth through the returned Commit, on failure leave the item
// unchanged. The pending marker is cleared on both exit paths. A second
// Mutate while one is pending fails immediately with ErrMutationPending.
// Creations pass a zero id; the guard holds regardless of the id value.
func (s *Store[T]) Mutate(ctx context.Context, id int64, call func(ctx context.Context) (Commit[T], error)) error {
	s.mu.Lock()
	if s.pendingSet {
		s.mu.Unlock()
		return ErrMutationPending
	}
	s.pendingSet = true
	s.pendingID = id
	s.phase = MutationPending
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.pendingSet = false
		s.pendingID = 0
		s.mu.Unlock()
		s.notify()
	}()

	commit, err := call(ctx)
	if err != nil {
		s.mu.Lock()
		s.phase = MutationRolledBack
		s.mu.Unlock()
		s.log.Warn("mutation rolled back", "id", id, "err", err)
		return err
	}

	s.mu.Lock()
	s.items = commit(s.items, &s.pagination)
	s.phase = MutationCommitted
	s.mu.Unlock()
	return nil
}

// Clear drops the displayed items and pagination, e.g. when the active tab
// or filter changes, so stale-kind rows are never shown under a new filter
// while the replacement fetch is outstanding. Outstanding fetches are
// invalidated and the loading flag reset, since their results will be
// discarded.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.items = nil
	s.pagination = Pagination{}
	s.errMsg = ""
	s.loading = false
	s.gen++
	s.mu.Unlock()
	s.notify()
}

// Items returns a copy of the current page of items, in server order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a list fetch is outstanding.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the current list-fetch error message, or "".
func (s *Store[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Pagination returns the current pagination snapshot.
func (s *Store[T]) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// PendingID returns the id of the item with a mutation in flight, or zero.
func (s *Store[T]) PendingID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingID
}

// Pending reports whether the given item has a mutation in flight. This is
// the per-item affordance check: only controls for this item are disabled,
// sibling items stay interactable.
func (s *Store[T]) Pending(id int64) bool {
	return s.PendingID() == id
}

// Phase returns the lifecycle phase of the most recent mutation.
func (s *Store[T]) Phase() MutationPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// messageFor maps an error to its display message: server-reported failures
// carry the extracted payload message, everything else is a network failure.
func messageFor(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return NetworkErrorMessage
}

// CommitDelete removes the item with the given id and decrements the total
// count, clamped at zero. Removing an id that is already gone (a double
// delete resolving twice) leaves the items as-is but still cannot push the
// count negative.
func CommitDelete[T any](idOf func(T) int64, id int64) Commit[T] {
	return func(items []T, pg *Pagination) []T {
		out := items[:0:0]
		for _, it := range items {
			if idOf(it) != id {
				out = append(out, it)
			}
		}
		if pg.Count > 0 {
			pg.Count--
		}
		return out
	}
}

// CommitUpdate applies fn to the item with the given id, in place. fn
// receives a pointer to the stored copy and overwrites it with the
// server-confirmed state.
func CommitUpdate[T any](idOf func(T) int64, id int64, fn func(*T)) Commit[T] {
	return func(items []T, _ *Pagination) []T {
		for i := range items {
			if idOf(items[i]) == id {
				fn(&items[i])
				break
			}
		}
		return items
	}
}

// CommitReplace swaps the stored item for the server's returned copy.
func CommitReplace[T any](idOf func(T) int64, item T) Commit[T] {
	id := idOf(item)
	return func(items []T, _ *Pagination) []T {
		for i := range items {
			if idOf(items[i]) == id {
				items[i] = item
				break
			}
		}
		return items
	}
}
