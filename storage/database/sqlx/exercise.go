package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/prepaclassics/backend/core/exercise"
)

type exerciseRepository struct {
	db *sqlx.DB
}

var _ exercise.Repository = (*exerciseRepository)(nil) // interface compliance check

func NewExerciseRepository(db *sqlx.DB) *exerciseRepository {
	return &exerciseRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to exercise.ErrNotFound
func (repo exerciseRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return exercise.ErrNotFound
	}
	return wrapErr(err, msg)
}

func (repo exerciseRepository) QueryAllExercises(ctx context.Context) ([]exercise.Exercise, error) {
	exos := make([]exercise.Exercise, 0)
	err := repo.db.SelectContext(ctx, &exos,
		`SELECT id, title, chapter, niveau, exercise_count, is_premium, url_enonce, created_at, updated_at
		 FROM exercises ORDER BY title ASC`)
	if err != nil {
		return nil, wrapErr(err, "querying exercises")
	}
	return exos, nil
}

func (repo exerciseRepository) GetExerciseByID(ctx context.Context, id int) (exercise.Exercise, error) {
	var exo exercise.Exercise
	err := repo.db.GetContext(ctx, &exo,
		`SELECT id, title, chapter, niveau, exercise_count, is_premium, url_enonce, created_at, updated_at
		 FROM exercises WHERE id = $1`, id)
	if err != nil {
		return exercise.Exercise{}, repo.trapNoRowsErr(err, "finding exercise by id")
	}
	return exo, nil
}

func (repo exerciseRepository) GetExerciseByTitle(ctx context.Context, title string) (exercise.Exercise, error) {
	var exo exercise.Exercise
	err := repo.db.GetContext(ctx, &exo,
		`SELECT id, title, chapter, niveau, exercise_count, is_premium, url_enonce, created_at, updated_at
		 FROM exercises WHERE title = $1`, title)
	if err != nil {
		return exercise.Exercise{}, repo.trapNoRowsErr(err, "finding exercise by title")
	}
	return exo, nil
}

func (repo exerciseRepository) CreateExercise(ctx context.Context, exo exercise.Exercise) (exercise.Exercise, error) {
	err := repo.db.QueryRowxContext(ctx,
		`INSERT INTO exercises (title, chapter, niveau, exercise_count, is_premium, url_enonce, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		exo.Title, exo.Chapter, exo.Niveau, exo.ExerciseCount, exo.IsPremium, exo.URLEnonce, exo.CreatedAt, exo.UpdatedAt,
	).Scan(&exo.ID)
	if err != nil {
		return exercise.Exercise{}, wrapErr(err, "inserting exercise")
	}
	return exo, nil
}

func (repo exerciseRepository) UpdateExercise(ctx context.Context, exo exercise.Exercise) (exercise.Exercise, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE exercises
		 SET chapter = $1, niveau = $2, exercise_count = $3, is_premium = $4, url_enonce = $5, updated_at = $6
		 WHERE id = $7`,
		exo.Chapter, exo.Niveau, exo.ExerciseCount, exo.IsPremium, exo.URLEnonce, exo.UpdatedAt, exo.ID)
	if err != nil {
		return exercise.Exercise{}, wrapErr(err, "updating exercise")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return exercise.Exercise{}, exercise.ErrNotFound
	}
	return exo, nil
}
