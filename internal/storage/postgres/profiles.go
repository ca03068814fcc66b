package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

const profileColumns = `user_id, username, income, frequency, currency, streak,
	cycle_start, last_streak_date, reminders, created_at, updated_at`

// CreateProfile inserts the onboarding profile row for a user.
func (s *Store) CreateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	reminders, err := json.Marshal(profile.Reminders)
	if err != nil {
		return models.Profile{}, fmt.Errorf("encode reminders: %w", err)
	}

	const query = `
		INSERT INTO profiles (user_id, username, income, frequency, currency, streak, cycle_start, last_streak_date, reminders)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + profileColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		profile.UserID, profile.Username, profile.Income, string(profile.Frequency),
		profile.Currency, profile.Streak, profile.CycleStart, profile.LastStreakDate, reminders,
	)
	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Profile{}, storage.ErrAlreadyExists
		}
		return models.Profile{}, err
	}
	return created, nil
}

// GetProfile fetches the profile owned by a user.
func (s *Store) GetProfile(ctx context.Context, userID int64) (models.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1;`
	return scanProfile(s.pool.QueryRow(ctx, query, userID))
}

// UpdateProfile overwrites the mutable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	reminders, err := json.Marshal(profile.Reminders)
	if err != nil {
		return models.Profile{}, fmt.Errorf("encode reminders: %w", err)
	}

	const query = `
		UPDATE profiles
		SET username = $2, income = $3, frequency = $4, currency = $5,
			streak = $6, cycle_start = $7, last_streak_date = $8, reminders = $9,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		profile.UserID, profile.Username, profile.Income, string(profile.Frequency),
		profile.Currency, profile.Streak, profile.CycleStart, profile.LastStreakDate, reminders,
	)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (models.Profile, error) {
	var (
		p         models.Profile
		frequency string
		reminders []byte
	)
	err := row.Scan(&p.UserID, &p.Username, &p.Income, &frequency, &p.Currency,
		&p.Streak, &p.CycleStart, &p.LastStreakDate, &reminders, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, storage.ErrNotFound
		}
		return models.Profile{}, err
	}
	p.Frequency = models.Frequency(frequency)
	if len(reminders) > 0 {
		if err := json.Unmarshal(reminders, &p.Reminders); err != nil {
			return models.Profile{}, fmt.Errorf("decode reminders: %w", err)
		}
	}
	return p, nil
}
