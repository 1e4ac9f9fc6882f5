package exercise

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
)

type fakeRepo struct {
	exos    map[int]Exercise
	nextID  int
	failAll error
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo(exos ...Exercise) *fakeRepo {
	repo := &fakeRepo{exos: make(map[int]Exercise)}
	for _, exo := range exos {
		repo.nextID++
		exo.ID = repo.nextID
		repo.exos[exo.ID] = exo
	}
	return repo
}

func (r *fakeRepo) QueryAllExercises(context.Context) ([]Exercise, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	exos := make([]Exercise, 0, len(r.exos))
	for _, exo := range r.exos {
		exos = append(exos, exo)
	}
	return exos, nil
}

func (r *fakeRepo) GetExerciseByID(_ context.Context, id int) (Exercise, error) {
	if exo, ok := r.exos[id]; ok {
		return exo, nil
	}
	return Exercise{}, ErrNotFound
}

func (r *fakeRepo) GetExerciseByTitle(_ context.Context, title string) (Exercise, error) {
	for _, exo := range r.exos {
		if exo.Title == title {
			return exo, nil
		}
	}
	return Exercise{}, ErrNotFound
}

func (r *fakeRepo) CreateExercise(_ context.Context, exo Exercise) (Exercise, error) {
	r.nextID++
	exo.ID = r.nextID
	r.exos[exo.ID] = exo
	return exo, nil
}

func (r *fakeRepo) UpdateExercise(_ context.Context, exo Exercise) (Exercise, error) {
	if _, ok := r.exos[exo.ID]; !ok {
		return Exercise{}, ErrNotFound
	}
	r.exos[exo.ID] = exo
	return exo, nil
}

// fakeCache is an in-memory core.Cache with JSON values, like the real one.
type fakeCache struct {
	values map[string][]byte
}

var _ core.Cache = (*fakeCache)(nil)

func newFakeCache() *fakeCache { return &fakeCache{values: make(map[string][]byte)} }

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.values[key]
	if !ok {
		return core.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, val interface{}, _ time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.values[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("nil repo degrades to an empty catalog", func(t *testing.T) {
		svc := NewService(nil, nil, 0, nopLogger{})
		if got := svc.List(ctx); len(got) != 0 {
			t.Errorf("List() = %v, want empty", got)
		}
	})

	t.Run("store failure degrades to an empty catalog", func(t *testing.T) {
		repo := newFakeRepo(Exercise{Title: "Matrices"})
		repo.failAll = errors.New("store down")
		svc := NewService(repo, nil, 0, nopLogger{})
		if got := svc.List(ctx); len(got) != 0 {
			t.Errorf("List() = %v, want empty", got)
		}
	})

	t.Run("cache is read through", func(t *testing.T) {
		repo := newFakeRepo(Exercise{Title: "Matrices", Chapter: "Algèbre", Niveau: NiveauSup})
		cache := newFakeCache()
		svc := NewService(repo, cache, time.Minute, nopLogger{})

		if got := svc.List(ctx); len(got) != 1 {
			t.Fatalf("List() = %v, want 1 entry", got)
		}

		// catalog now served from the cache
		repo.failAll = errors.New("store down")
		if got := svc.List(ctx); len(got) != 1 {
			t.Errorf("List() after caching = %v, want 1 entry", got)
		}
	})
}

func TestServiceUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := newFakeCache()
	svc := NewService(repo, cache, time.Minute, nopLogger{})

	ne := NewExercise{Title: "Matrices", Chapter: "Algèbre", Niveau: NiveauSup, ExerciseCount: 10}

	exo, created, err := svc.Upsert(ctx, ne)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !created {
		t.Errorf("Upsert() created = false, want true")
	}

	// same title updates in place
	ne.ExerciseCount = 12
	ne.IsPremium = true
	updated, created, err := svc.Upsert(ctx, ne)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if created {
		t.Errorf("Upsert() created = true, want false")
	}
	if updated.ID != exo.ID {
		t.Errorf("Upsert() ID = %d, want %d", updated.ID, exo.ID)
	}
	if updated.ExerciseCount != 12 || !updated.IsPremium {
		t.Errorf("Upsert() did not apply changes: %+v", updated)
	}

	// cache invalidated on writes
	svc.List(ctx)
	if _, _, err = svc.Upsert(ctx, NewExercise{Title: "Suites", Chapter: "Analyse", Niveau: NiveauSup}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, ok := cache.values[catalogCacheKey]; ok {
		t.Errorf("catalog cache not invalidated after Upsert()")
	}
}
