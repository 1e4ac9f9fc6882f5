package dummydb

import (
	"context"
	"sort"

	"github.com/prepaclassics/backend/core/exercise"
)

var exoPKCount int

type exerciseRepository struct {
	db *exerciseTable
}

var _ exercise.Repository = (*exerciseRepository)(nil) // interface compliance check

func NewExerciseRepository(db *DB) *exerciseRepository {
	return &exerciseRepository{db: db.exercise}
}

func (repo *exerciseRepository) query() []exercise.Exercise {
	exos := make([]exercise.Exercise, 0, len(repo.db.table))
	for _, exo := range repo.db.table {
		exos = append(exos, *exo)
	}
	return exos
}

func (repo *exerciseRepository) QueryAllExercises(_ context.Context) ([]exercise.Exercise, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exos := repo.query()
	sort.Slice(exos, func(i, j int) bool { return exos[i].Title < exos[j].Title })
	return exos, nil
}

func (repo *exerciseRepository) GetExerciseByID(_ context.Context, id int) (exercise.Exercise, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if exo, ok := repo.db.table[id]; ok {
		return *exo, nil
	}
	return exercise.Exercise{}, exercise.ErrNotFound
}

func (repo *exerciseRepository) GetExerciseByTitle(_ context.Context, title string) (exercise.Exercise, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, exo := range repo.query() {
		if exo.Title == title {
			return exo, nil
		}
	}
	return exercise.Exercise{}, exercise.ErrNotFound
}

func (repo *exerciseRepository) CreateExercise(_ context.Context, exo exercise.Exercise) (exercise.Exercise, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	exoPKCount++
	exo.ID = exoPKCount
	repo.db.table[exo.ID] = &exo
	return exo, nil
}

func (repo *exerciseRepository) UpdateExercise(_ context.Context, exo exercise.Exercise) (exercise.Exercise, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[exo.ID]; !ok {
		return exercise.Exercise{}, exercise.ErrNotFound
	}
	repo.db.table[exo.ID] = &exo
	return exo, nil
}
