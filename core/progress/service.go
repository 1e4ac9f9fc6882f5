package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/exercise"
)

type (
	Repository interface {
		// QueryProgress returns the caller's rows for the given exercises.
		QueryProgress(ctx context.Context, userID string, exerciseIDs []int) ([]Entry, error)
		// UpsertProgress inserts or overwrites the row for the entry's key.
		UpsertProgress(ctx context.Context, entry Entry) error
		// DeleteProgress removes rows; index 0 means every row of the exercise.
		DeleteProgress(ctx context.Context, userID string, exerciseID, index int) error
	}

	Service struct {
		repo        Repository
		revertDelay time.Duration
		logger      core.Logger
	}
)

// NewService builds the progress service. A nil repo degrades every read to
// the empty projection and makes writes visual-only.
func NewService(repo Repository, revertDelay time.Duration, logger core.Logger) *Service {
	return &Service{repo: repo, revertDelay: revertDelay, logger: logger}
}

// Load fetches the caller's progress for the given exercises, best-effort:
// anonymous callers, a missing store and store failures all yield the empty
// projection (everything implicitly "todo").
func (svc *Service) Load(ctx context.Context, userID string, exerciseIDs []int) map[Key]Status {
	tracker := svc.TrackerFor(ctx, userID, exerciseIDs)
	return tracker.Snapshot()
}

// TrackerFor builds the caller's local projection over the given exercises.
func (svc *Service) TrackerFor(ctx context.Context, userID string, exerciseIDs []int) *Tracker {
	tracker := NewTracker(userID, svc.persistFunc(), svc.revertDelay, svc.logger)
	if svc.repo == nil || userID == "" || len(exerciseIDs) == 0 {
		return tracker
	}

	entries, err := svc.repo.QueryProgress(ctx, userID, exerciseIDs)
	if err != nil {
		svc.logger.Error("loading progress", errors.Wrap(err, "loading progress"))
		return tracker
	}
	tracker.Load(entries)
	return tracker
}

// Toggle advances one bubble for the caller and returns the status in effect
// afterwards (the pre-toggle value when persistence failed and the optimistic
// change was rolled back).
func (svc *Service) Toggle(ctx context.Context, userID string, exerciseID, index int) Status {
	tracker := svc.TrackerFor(ctx, userID, []int{exerciseID})
	return tracker.Toggle(ctx, exerciseID, index)
}

// Summary recomputes the caller's aggregate views over the visible catalog.
func (svc *Service) Summary(ctx context.Context, userID string, exos []exercise.Exercise) Summary {
	ids := make([]int, 0, len(exos))
	for _, exo := range exos {
		ids = append(ids, exo.ID)
	}
	return Summarize(exos, svc.Load(ctx, userID, ids))
}

// Reset deletes stored rows, reverting bubbles to the implicit default.
// Index 0 resets the whole exercise.
func (svc *Service) Reset(ctx context.Context, userID string, exerciseID, index int) error {
	if svc.repo == nil {
		return errors.New("progress store not configured")
	}
	return errors.Wrap(svc.repo.DeleteProgress(ctx, userID, exerciseID, index), "deleting progress")
}

func (svc *Service) persistFunc() PersistFunc {
	if svc.repo == nil {
		return func(context.Context, Entry) error { return errors.New("progress store not configured") }
	}
	return func(ctx context.Context, entry Entry) error {
		return svc.repo.UpsertProgress(ctx, entry)
	}
}
