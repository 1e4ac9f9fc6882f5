package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prepaclassics/backend/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT id, email, is_premium, created_at, updated_at FROM users WHERE email = $1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapErr(err, "finding user by email")
	}
	return usr, nil
}

func (repo userRepository) SetUserPremium(ctx context.Context, email string, premium bool) (user.User, error) {
	var usr user.User
	now := time.Now().UTC()
	err := repo.db.GetContext(ctx, &usr,
		`INSERT INTO users (id, email, is_premium, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (email)
		 DO UPDATE SET is_premium = EXCLUDED.is_premium, updated_at = EXCLUDED.updated_at
		 RETURNING id, email, is_premium, created_at, updated_at`,
		uuid.New().String(), email, premium, now)
	if err != nil {
		return user.User{}, wrapErr(err, "upserting user")
	}
	return usr, nil
}
