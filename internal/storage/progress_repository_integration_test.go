package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent_academy/internal/models"
)

// Integration tests for the Postgres repositories.
//
// These tests require a PostgreSQL database with the migrations applied:
//
//   psql "$DATABASE_URL" -f migrations/001_init.sql
//
// Then run:
//   DATABASE_URL="postgres://postgres@localhost:5432/academy_test?sslmode=disable" go test ./internal/storage/

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg := DefaultDBConfig()
	cfg.DSN = dbURL
	db, err := NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func cleanupProgress(t *testing.T, db *DB, userID string) {
	t.Helper()
	ctx := context.Background()
	_, _ = db.Conn().ExecContext(ctx, "DELETE FROM user_progress WHERE user_id = $1", userID)
	_, _ = db.Conn().ExecContext(ctx, "DELETE FROM user_profiles WHERE id = $1", userID)
}

func TestProgressRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	userID := "it-user-" + uuid.NewString()
	cleanupProgress(t, db, userID)
	t.Cleanup(func() { cleanupProgress(t, db, userID) })

	// First upsert creates the row.
	entry := &models.ProgressEntry{
		UserID:      userID,
		ExerciseID:  "prompt-basics",
		Completed:   false,
		Score:       40,
		Attempts:    1,
		LastAttempt: time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, entry))

	got, err := repo.GetByExercise(ctx, userID, "prompt-basics")
	require.NoError(t, err)
	assert.Equal(t, 40, got.Score)
	assert.False(t, got.Completed)
	assert.Equal(t, 1, got.Attempts)

	// Second upsert updates in place, no duplicate row.
	entry.Completed = true
	entry.Score = 85
	entry.Attempts = 2
	require.NoError(t, repo.Upsert(ctx, entry))

	entries, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Completed)
	assert.Equal(t, 85, entries[0].Score)

	// Recompute derives profile totals from completed rows.
	require.NoError(t, repo.Upsert(ctx, &models.ProgressEntry{
		UserID:      userID,
		ExerciseID:  "goal-setting",
		Completed:   true,
		Score:       70,
		Attempts:    1,
		LastAttempt: time.Now().UTC(),
	}))
	require.NoError(t, repo.RecomputeProfile(ctx, userID))

	profile, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.TotalExercisesCompleted)
	assert.Equal(t, 155, profile.TotalScore)

	// Sentinel errors for absent rows.
	_, err = repo.GetByExercise(ctx, userID, "never-attempted")
	assert.ErrorIs(t, err, ErrProgressNotFound)

	_, err = repo.GetProfile(ctx, "no-such-user-"+uuid.NewString())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUsageRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsageRepository(db)
	ctx := context.Background()

	userID := "it-usage-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = db.Conn().ExecContext(ctx, "DELETE FROM usage_records WHERE user_id = $1", userID)
	})

	records := []*models.UsageRecord{
		{
			ID:             uuid.New(),
			RequestID:      uuid.New(),
			UserID:         userID,
			ModelID:        "claude-3-haiku-20240307",
			Provider:       "anthropic",
			InputTokens:    100,
			OutputTokens:   200,
			TotalCostUSD:   0.000075,
			ResponseTimeMS: 150,
			StatusCode:     200,
			CreatedAt:      time.Now().UTC(),
		},
		{
			ID:           uuid.New(),
			RequestID:    uuid.New(),
			UserID:       userID,
			ModelID:      "gpt-4o-mini",
			Provider:     "openai",
			InputTokens:  50,
			OutputTokens: 80,
			TotalCostUSD: 0.0000195,
			StatusCode:   200,
			CreatedAt:    time.Now().UTC(),
		},
	}
	require.NoError(t, repo.InsertBatch(ctx, records))

	var count int
	require.NoError(t, db.Conn().GetContext(ctx, &count,
		"SELECT COUNT(*) FROM usage_records WHERE user_id = $1", userID))
	assert.Equal(t, 2, count)
}
