package dummydb

import (
	"context"

	"github.com/prepaclassics/backend/core/progress"
)

type ProgressRepository struct {
	db *progressTable

	// FailWrites makes every UpsertProgress return this error, for exercising
	// rollback paths in tests.
	FailWrites error
}

var _ progress.Repository = (*ProgressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db.progress}
}

func (repo *ProgressRepository) QueryProgress(_ context.Context, userID string, exerciseIDs []int) ([]progress.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows, ok := repo.db.table[userID]
	if !ok {
		return nil, nil
	}

	wanted := make(map[int]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		wanted[id] = true
	}

	entries := make([]progress.Entry, 0, len(rows))
	for key, entry := range rows {
		if wanted[key.ExerciseID] {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (repo *ProgressRepository) UpsertProgress(_ context.Context, entry progress.Entry) error {
	if repo.FailWrites != nil {
		return repo.FailWrites
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	rows, ok := repo.db.table[entry.UserID]
	if !ok {
		rows = make(map[progress.Key]progress.Entry)
		repo.db.table[entry.UserID] = rows
	}
	rows[entry.Key()] = entry
	return nil
}

func (repo *ProgressRepository) DeleteProgress(_ context.Context, userID string, exerciseID, index int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	rows, ok := repo.db.table[userID]
	if !ok {
		return nil
	}
	for key := range rows {
		if key.ExerciseID != exerciseID {
			continue
		}
		if index == 0 || key.Index == index {
			delete(rows, key)
		}
	}
	return nil
}
