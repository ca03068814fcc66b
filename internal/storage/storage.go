package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zcorpion/zcorpion-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures identity persistence needed by the auth handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// ProfileStore captures budgeting-profile persistence.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	GetProfile(ctx context.Context, userID int64) (models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
}

// MovementStore captures expense persistence. Listings are ordered by date
// descending. RecordMovement persists the movement together with the profile
// side effects of recording it (streak, cycle rollover) atomically, so a
// failure never leaves one written without the other.
type MovementStore interface {
	CreateMovement(ctx context.Context, movement models.Movement) (models.Movement, error)
	RecordMovement(ctx context.Context, movement models.Movement, profile models.Profile) (models.Movement, models.Profile, error)
	ListMovements(ctx context.Context, userID int64) ([]models.Movement, error)
	DeleteMovement(ctx context.Context, userID int64, id uuid.UUID) error
	ReplaceMovements(ctx context.Context, userID int64, movements []models.Movement) error
}

// GoalStore captures savings-goal persistence.
type GoalStore interface {
	CreateGoal(ctx context.Context, goal models.SavingsGoal) (models.SavingsGoal, error)
	ListGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error)
	DeleteGoal(ctx context.Context, userID int64, id uuid.UUID) error
	ReplaceGoals(ctx context.Context, userID int64, goals []models.SavingsGoal) error
}

// Store is the full persistence surface the server wires up.
type Store interface {
	UserStore
	ProfileStore
	MovementStore
	GoalStore
}
