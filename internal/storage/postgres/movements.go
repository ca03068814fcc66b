package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

const movementColumns = `id, user_id, amount, category, description, date, is_fixed, recurrence, created_at`

// CreateMovement inserts an expense row.
func (s *Store) CreateMovement(ctx context.Context, movement models.Movement) (models.Movement, error) {
	var recurrence *string
	if movement.Recurrence != nil {
		v := string(*movement.Recurrence)
		recurrence = &v
	}

	const query = `
		INSERT INTO movements (id, user_id, amount, category, description, date, is_fixed, recurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + movementColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		movement.ID, movement.UserID, movement.Amount, string(movement.Category),
		movement.Description, movement.Date, movement.Fixed, recurrence,
	)
	return scanMovement(row)
}

// RecordMovement inserts an expense row and writes the updated profile in
// the same transaction, so the streak and cycle-rollover side effects never
// land without the movement (or vice versa).
func (s *Store) RecordMovement(ctx context.Context, movement models.Movement, profile models.Profile) (models.Movement, models.Profile, error) {
	var recurrence *string
	if movement.Recurrence != nil {
		v := string(*movement.Recurrence)
		recurrence = &v
	}
	reminders, err := json.Marshal(profile.Reminders)
	if err != nil {
		return models.Movement{}, models.Profile{}, fmt.Errorf("encode reminders: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Movement{}, models.Profile{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertQuery = `
		INSERT INTO movements (id, user_id, amount, category, description, date, is_fixed, recurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + movementColumns + `;`
	created, err := scanMovement(tx.QueryRow(ctx, insertQuery,
		movement.ID, movement.UserID, movement.Amount, string(movement.Category),
		movement.Description, movement.Date, movement.Fixed, recurrence,
	))
	if err != nil {
		return models.Movement{}, models.Profile{}, err
	}

	const updateQuery = `
		UPDATE profiles
		SET username = $2, income = $3, frequency = $4, currency = $5,
			streak = $6, cycle_start = $7, last_streak_date = $8, reminders = $9,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns + `;`
	updated, err := scanProfile(tx.QueryRow(ctx, updateQuery,
		profile.UserID, profile.Username, profile.Income, string(profile.Frequency),
		profile.Currency, profile.Streak, profile.CycleStart, profile.LastStreakDate, reminders,
	))
	if err != nil {
		return models.Movement{}, models.Profile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Movement{}, models.Profile{}, err
	}
	return created, updated, nil
}

// ListMovements returns all of a user's movements, newest first.
func (s *Store) ListMovements(ctx context.Context, userID int64) ([]models.Movement, error) {
	const query = `SELECT ` + movementColumns + ` FROM movements WHERE user_id = $1 ORDER BY date DESC;`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMovement removes one of the user's movements by id.
func (s *Store) DeleteMovement(ctx context.Context, userID int64, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM movements WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReplaceMovements swaps the user's full movement set in one transaction.
// Used by snapshot import.
func (s *Store) ReplaceMovements(ctx context.Context, userID int64, movements []models.Movement) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM movements WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, m := range movements {
		var recurrence *string
		if m.Recurrence != nil {
			v := string(*m.Recurrence)
			recurrence = &v
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO movements (id, user_id, amount, category, description, date, is_fixed, recurrence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			m.ID, userID, m.Amount, string(m.Category), m.Description, m.Date, m.Fixed, recurrence,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanMovement(row pgx.Row) (models.Movement, error) {
	var (
		m          models.Movement
		category   string
		recurrence *string
	)
	err := row.Scan(&m.ID, &m.UserID, &m.Amount, &category, &m.Description,
		&m.Date, &m.Fixed, &recurrence, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Movement{}, storage.ErrNotFound
		}
		return models.Movement{}, err
	}
	m.Category = models.Category(category)
	if recurrence != nil {
		f := models.Frequency(*recurrence)
		m.Recurrence = &f
	}
	return m, nil
}
