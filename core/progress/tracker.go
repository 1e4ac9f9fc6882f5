package progress

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
)

// PersistFunc writes one entry to the authoritative store. A single attempt is
// made per toggle; no retry, no timeout.
type PersistFunc func(ctx context.Context, entry Entry) error

// pendingOp records an optimistic mutation until its fate is known, so a
// failed or anonymous toggle can be rolled back to the exact prior value.
type pendingOp struct {
	key  Key
	prev Status
	next Status
}

// Tracker is a local mutable projection of the remote progress store for one
// caller. Every mutation is applied locally first and reverted when the store
// rejects it. An anonymous tracker (empty userID) never persists: its toggles
// are visual only and revert after revertDelay.
type Tracker struct {
	mu          sync.Mutex
	userID      string
	entries     map[Key]Status
	persist     PersistFunc
	revertDelay time.Duration
	logger      core.Logger
}

func NewTracker(userID string, persist PersistFunc, revertDelay time.Duration, logger core.Logger) *Tracker {
	return &Tracker{
		userID:      userID,
		entries:     make(map[Key]Status),
		persist:     persist,
		revertDelay: revertDelay,
		logger:      logger,
	}
}

// Load replaces the projection with the given stored entries. Rows with a
// default or invalid status are dropped: absence already means "todo".
func (t *Tracker) Load(entries []Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make(map[Key]Status, len(entries))
	for _, e := range entries {
		if e.Status.Valid() && e.Status != StatusTodo {
			t.entries[e.Key()] = e.Status
		}
	}
}

// Status returns the current status of a bubble; missing keys are "todo".
func (t *Tracker) Status(exerciseID, index int) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status(Key{ExerciseID: exerciseID, Index: index})
}

func (t *Tracker) status(key Key) Status {
	if s, ok := t.entries[key]; ok {
		return s
	}
	return StatusTodo
}

// Snapshot copies the projection, for aggregate derivation.
func (t *Tracker) Snapshot() map[Key]Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := make(map[Key]Status, len(t.entries))
	for k, s := range t.entries {
		snap[k] = s
	}
	return snap
}

// Toggle advances the bubble's status along the fixed cycle. The new value is
// applied locally before the store is consulted; on persistence failure the
// entry is rolled back and the failure is logged, not surfaced. Anonymous
// togglers get immediate feedback that reverts after the configured delay.
// The returned Status is the value in effect when Toggle returns.
func (t *Tracker) Toggle(ctx context.Context, exerciseID, index int) Status {
	key := Key{ExerciseID: exerciseID, Index: index}

	t.mu.Lock()
	op := pendingOp{key: key, prev: t.status(key), next: t.status(key).Next()}
	t.apply(key, op.next)
	t.mu.Unlock()

	if t.userID == "" {
		// anonymous progress is never durable
		time.AfterFunc(t.revertDelay, func() { t.rollback(op) })
		return op.next
	}

	err := t.persist(ctx, Entry{
		UserID:     t.userID,
		ExerciseID: exerciseID,
		Index:      index,
		Status:     op.next,
		UpdatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.rollback(op)
		if t.logger != nil {
			t.logger.Error("persisting progress", errors.Wrap(err, "persisting progress"))
		}
		return op.prev
	}
	return op.next
}

func (t *Tracker) apply(key Key, status Status) {
	if status == StatusTodo {
		delete(t.entries, key)
		return
	}
	t.entries[key] = status
}

// rollback restores the pre-toggle value, unless a later toggle already moved
// the key past this operation.
func (t *Tracker) rollback(op pendingOp) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status(op.key) == op.next {
		t.apply(op.key, op.prev)
	}
}
