package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prepaclassics/backend/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[email]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) SetUserPremium(_ context.Context, email string, premium bool) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	now := time.Now().UTC()
	usr, ok := repo.db.table[email]
	if !ok {
		usr = &user.User{ID: uuid.New().String(), Email: email, CreatedAt: now}
		repo.db.table[email] = usr
	}
	usr.IsPremium = premium
	usr.UpdatedAt = now
	return *usr, nil
}
