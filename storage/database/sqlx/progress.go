package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core/progress"
)

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *sqlx.DB) *progressRepository {
	return &progressRepository{db: db}
}

func (repo progressRepository) QueryProgress(ctx context.Context, userID string, exerciseIDs []int) ([]progress.Entry, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT user_id, exercise_id, "index", status, updated_at
		 FROM user_progress WHERE user_id = ? AND exercise_id IN (?)`,
		userID, exerciseIDs)
	if err != nil {
		return nil, errors.Wrap(err, "expanding progress query")
	}

	entries := make([]progress.Entry, 0)
	if err = repo.db.SelectContext(ctx, &entries, repo.db.Rebind(query), args...); err != nil {
		return nil, wrapErr(err, "querying progress")
	}
	return entries, nil
}

func (repo progressRepository) UpsertProgress(ctx context.Context, entry progress.Entry) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO user_progress (user_id, exercise_id, "index", status, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, exercise_id, "index")
		 DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		entry.UserID, entry.ExerciseID, entry.Index, entry.Status, entry.UpdatedAt)
	return wrapErr(err, "upserting progress")
}

func (repo progressRepository) DeleteProgress(ctx context.Context, userID string, exerciseID, index int) error {
	var err error
	if index == 0 {
		_, err = repo.db.ExecContext(ctx,
			`DELETE FROM user_progress WHERE user_id = $1 AND exercise_id = $2`,
			userID, exerciseID)
	} else {
		_, err = repo.db.ExecContext(ctx,
			`DELETE FROM user_progress WHERE user_id = $1 AND exercise_id = $2 AND "index" = $3`,
			userID, exerciseID, index)
	}
	return wrapErr(err, "deleting progress")
}
