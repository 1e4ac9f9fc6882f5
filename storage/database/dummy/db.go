package dummydb

import (
	"sync"

	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
	"github.com/prepaclassics/backend/core/user"
)

type (
	DB struct {
		exercise *exerciseTable
		progress *progressTable
		user     *userTable
	}

	exerciseTable struct {
		sync.RWMutex
		table map[int]*exercise.Exercise
	}

	progressTable struct {
		sync.RWMutex
		// keyed by user ID; inner map keyed by (exercise, bubble)
		table map[string]map[progress.Key]progress.Entry
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User // keyed by email
	}
)

func Open() (*DB, error) {
	db := &DB{
		exercise: &exerciseTable{table: make(map[int]*exercise.Exercise)},
		progress: &progressTable{table: make(map[string]map[progress.Key]progress.Entry)},
		user:     &userTable{table: make(map[string]*user.User)},
	}
	return db, nil
}
