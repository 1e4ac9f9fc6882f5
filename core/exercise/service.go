package exercise

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
)

var ErrNotFound = errors.New("exercise not found")

const catalogCacheKey = "catalog:exercises"

type (
	Repository interface {
		// QueryAllExercises returns the whole catalog ordered by title ascending.
		QueryAllExercises(ctx context.Context) ([]Exercise, error)
		GetExerciseByID(ctx context.Context, id int) (Exercise, error)
		GetExerciseByTitle(ctx context.Context, title string) (Exercise, error)
		CreateExercise(ctx context.Context, exo Exercise) (Exercise, error)
		UpdateExercise(ctx context.Context, exo Exercise) (Exercise, error)
	}

	Service struct {
		repo     Repository
		cache    core.Cache
		cacheTTL time.Duration
		logger   core.Logger
	}
)

// NewService builds the catalog service. A nil repo puts the service in
// degraded mode: List returns an empty catalog. cache may be nil.
func NewService(repo Repository, cache core.Cache, cacheTTL time.Duration, logger core.Logger) *Service {
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns the catalog ordered by title. Reads are best-effort: store
// failures are logged and an empty catalog is returned.
func (svc *Service) List(ctx context.Context) []Exercise {
	if svc.repo == nil {
		return []Exercise{}
	}

	if svc.cache != nil {
		var cached []Exercise
		if err := svc.cache.Get(ctx, catalogCacheKey, &cached); err == nil {
			return cached
		} else if errors.Cause(err) != core.ErrCacheMiss {
			svc.logger.Warn("reading catalog cache", err)
		}
	}

	exos, err := svc.repo.QueryAllExercises(ctx)
	if err != nil {
		svc.logger.Error("querying catalog", errors.Wrap(err, "querying catalog"))
		return []Exercise{}
	}

	if svc.cache != nil {
		if err = svc.cache.Set(ctx, catalogCacheKey, exos, svc.cacheTTL); err != nil {
			svc.logger.Warn("writing catalog cache", err)
		}
	}
	return exos
}

func (svc *Service) GetByID(ctx context.Context, id int) (Exercise, error) {
	if svc.repo == nil {
		return Exercise{}, ErrNotFound
	}
	return svc.repo.GetExerciseByID(ctx, id)
}

// Upsert creates the catalog entry or, when the title already exists, updates
// it in place. It reports whether a new row was created.
func (svc *Service) Upsert(ctx context.Context, ne NewExercise) (Exercise, bool, error) {
	if svc.repo == nil {
		return Exercise{}, false, errors.New("catalog store not configured")
	}

	now := time.Now().UTC()
	existing, err := svc.repo.GetExerciseByTitle(ctx, ne.Title)
	switch errors.Cause(err) {
	case nil:
		existing.Chapter = ne.Chapter
		existing.Niveau = ne.Niveau
		existing.ExerciseCount = ne.ExerciseCount
		existing.IsPremium = ne.IsPremium
		existing.URLEnonce = ne.URLEnonce
		existing.UpdatedAt = now
		exo, uerr := svc.repo.UpdateExercise(ctx, existing)
		if uerr != nil {
			return Exercise{}, false, errors.Wrap(uerr, "updating exercise")
		}
		svc.invalidateCatalog(ctx)
		return exo, false, nil
	case ErrNotFound:
		exo, cerr := svc.repo.CreateExercise(ctx, Exercise{
			Title:         ne.Title,
			Chapter:       ne.Chapter,
			Niveau:        ne.Niveau,
			ExerciseCount: ne.ExerciseCount,
			IsPremium:     ne.IsPremium,
			URLEnonce:     ne.URLEnonce,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if cerr != nil {
			return Exercise{}, false, errors.Wrap(cerr, "creating exercise")
		}
		svc.invalidateCatalog(ctx)
		return exo, true, nil
	default:
		return Exercise{}, false, errors.Wrap(err, "finding exercise by title")
	}
}

func (svc *Service) invalidateCatalog(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Delete(ctx, catalogCacheKey); err != nil {
		svc.logger.Warn("invalidating catalog cache", err)
	}
}
