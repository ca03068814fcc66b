package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zcorpion/zcorpion-be/internal/models"
	"github.com/zcorpion/zcorpion-be/internal/storage"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, created_at`

// CreateGoal inserts a savings goal row.
func (s *Store) CreateGoal(ctx context.Context, goal models.SavingsGoal) (models.SavingsGoal, error) {
	const query = `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + goalColumns + `;`
	row := s.pool.QueryRow(ctx, query, goal.ID, goal.UserID, goal.Name, goal.Target, goal.Current)
	return scanGoal(row)
}

// ListGoals returns the user's savings goals, oldest first.
func (s *Store) ListGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error) {
	const query = `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at;`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteGoal removes one of the user's goals by id.
func (s *Store) DeleteGoal(ctx context.Context, userID int64, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM goals WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ReplaceGoals swaps the user's full goal set in one transaction. Used by
// snapshot import.
func (s *Store) ReplaceGoals(ctx context.Context, userID int64, goals []models.SavingsGoal) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM goals WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, g := range goals {
		_, err := tx.Exec(ctx, `
			INSERT INTO goals (id, user_id, name, target_amount, current_amount)
			VALUES ($1, $2, $3, $4, $5)`,
			g.ID, userID, g.Name, g.Target, g.Current,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanGoal(row pgx.Row) (models.SavingsGoal, error) {
	var g models.SavingsGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Current, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SavingsGoal{}, storage.ErrNotFound
		}
		return models.SavingsGoal{}, err
	}
	return g, nil
}
