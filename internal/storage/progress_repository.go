package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agent_academy/internal/models"
)

// ProgressRepository handles user_progress and user_profiles rows.
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert inserts or updates the row for (user_id, exercise_id). All mutable
// columns come from the entry; created_at is preserved on conflict.
func (r *ProgressRepository) Upsert(ctx context.Context, entry *models.ProgressEntry) error {
	query := `
		INSERT INTO user_progress (user_id, exercise_id, completed, score, attempts, last_attempt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, exercise_id) DO UPDATE SET
			completed    = EXCLUDED.completed,
			score        = EXCLUDED.score,
			attempts     = EXCLUDED.attempts,
			last_attempt = EXCLUDED.last_attempt,
			updated_at   = NOW()
	`

	_, err := r.db.conn.ExecContext(ctx, query,
		entry.UserID, entry.ExerciseID, entry.Completed, entry.Score, entry.Attempts, entry.LastAttempt)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

// GetByExercise retrieves one user's progress for one exercise.
func (r *ProgressRepository) GetByExercise(ctx context.Context, userID, exerciseID string) (*models.ProgressEntry, error) {
	var entry models.ProgressEntry
	query := `
		SELECT user_id, exercise_id, completed, score, attempts, last_attempt, created_at, updated_at
		FROM user_progress
		WHERE user_id = $1 AND exercise_id = $2
	`

	err := r.db.conn.GetContext(ctx, &entry, query, userID, exerciseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &entry, nil
}

// ListByUser retrieves all progress rows for a user.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	query := `
		SELECT user_id, exercise_id, completed, score, attempts, last_attempt, created_at, updated_at
		FROM user_progress
		WHERE user_id = $1
		ORDER BY exercise_id
	`

	if err := r.db.conn.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return entries, nil
}

// RecomputeProfile re-derives the user's aggregate totals from completed
// progress rows and upserts user_profiles. Recomputation (one read) is
// deliberate: an incremental counter could drift from the underlying rows.
func (r *ProgressRepository) RecomputeProfile(ctx context.Context, userID string) error {
	var totals struct {
		Completed int `db:"completed"`
		Score     int `db:"score"`
	}
	query := `
		SELECT COUNT(*) AS completed, COALESCE(SUM(score), 0) AS score
		FROM user_progress
		WHERE user_id = $1 AND completed = true
	`
	if err := r.db.conn.GetContext(ctx, &totals, query, userID); err != nil {
		return fmt.Errorf("failed to compute totals: %w", err)
	}

	upsert := `
		INSERT INTO user_profiles (id, total_exercises_completed, total_score, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			total_exercises_completed = EXCLUDED.total_exercises_completed,
			total_score               = EXCLUDED.total_score,
			updated_at                = NOW()
	`
	if _, err := r.db.conn.ExecContext(ctx, upsert, userID, totals.Completed, totals.Score); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the aggregate totals for a user.
func (r *ProgressRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	query := `
		SELECT id, total_exercises_completed, total_score, updated_at
		FROM user_profiles
		WHERE id = $1
	`

	err := r.db.conn.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}
