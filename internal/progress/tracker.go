// Package progress implements the progress store: per-exercise attempt
// counts, completion flags, and scores for signed-in users, persisted through
// the storage layer.
//
// Every operation is scoped to an authenticated identity. With no identity
// (empty userID) writes are no-ops and reads return empty. Persistence errors
// are logged and swallowed here so callers always observe "no-op on failure"
// rather than a surfaced error.
package progress

import (
	"context"
	"errors"
	"time"

	"agent_academy/internal/models"
	"agent_academy/internal/storage"
	"agent_academy/internal/utils"
)

// Store is the persistence surface the tracker needs. Satisfied by
// *storage.ProgressRepository; tests substitute an in-memory fake.
type Store interface {
	Upsert(ctx context.Context, entry *models.ProgressEntry) error
	GetByExercise(ctx context.Context, userID, exerciseID string) (*models.ProgressEntry, error)
	ListByUser(ctx context.Context, userID string) ([]models.ProgressEntry, error)
	RecomputeProfile(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Data is the caller-supplied state for one attempt at an exercise.
type Data struct {
	ExerciseID string `json:"exercise_id" validate:"required"`
	Completed  bool   `json:"completed"`
	Score      int    `json:"score" validate:"gte=0,lte=100"`
	Attempts   int    `json:"attempts" validate:"gte=0"`
}

// Tracker wraps a Store with the identity-scoping and error-swallowing
// semantics described above.
type Tracker struct {
	store  Store
	logger *utils.Logger
	now    func() time.Time
}

// NewTracker creates a tracker over a store.
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store:  store,
		logger: utils.NewLogger("progress"),
		now:    time.Now,
	}
}

// SaveProgress upserts the (user, exercise) row. When the attempt is marked
// completed, the user's profile totals are recomputed from the completed rows
// rather than incremented, trading a read for drift-free aggregates.
func (t *Tracker) SaveProgress(ctx context.Context, userID string, data Data) {
	if userID == "" {
		return
	}

	entry := &models.ProgressEntry{
		UserID:      userID,
		ExerciseID:  data.ExerciseID,
		Completed:   data.Completed,
		Score:       data.Score,
		Attempts:    data.Attempts,
		LastAttempt: t.now(),
	}

	if err := t.store.Upsert(ctx, entry); err != nil {
		t.logger.Error("Failed to save progress", "user", userID, "exercise", data.ExerciseID, "error", err)
		return
	}

	if data.Completed {
		if err := t.store.RecomputeProfile(ctx, userID); err != nil {
			t.logger.Error("Failed to update profile totals", "user", userID, "error", err)
		}
	}
}

// GetProgress returns the user's entry for one exercise, or nil when the user
// is anonymous, the entry does not exist, or the read fails.
func (t *Tracker) GetProgress(ctx context.Context, userID, exerciseID string) *models.ProgressEntry {
	if userID == "" {
		return nil
	}

	entry, err := t.store.GetByExercise(ctx, userID, exerciseID)
	if err != nil {
		if !errors.Is(err, storage.ErrProgressNotFound) {
			t.logger.Error("Failed to fetch progress", "user", userID, "exercise", exerciseID, "error", err)
		}
		return nil
	}
	return entry
}

// GetAllProgress returns every entry for the user; empty for anonymous
// callers or on read failure.
func (t *Tracker) GetAllProgress(ctx context.Context, userID string) []models.ProgressEntry {
	if userID == "" {
		return nil
	}

	entries, err := t.store.ListByUser(ctx, userID)
	if err != nil {
		t.logger.Error("Failed to fetch all progress", "user", userID, "error", err)
		return nil
	}
	return entries
}

// GetCompletedExercises returns the ids of exercises the user has completed.
func (t *Tracker) GetCompletedExercises(ctx context.Context, userID string) []string {
	var completed []string
	for _, entry := range t.GetAllProgress(ctx, userID) {
		if entry.Completed {
			completed = append(completed, entry.ExerciseID)
		}
	}
	return completed
}

// IncrementAttempts bumps the attempt counter for an exercise, creating the
// row on first attempt and preserving completed/score on later ones.
//
// This is a read-then-write with no compare-and-swap: two concurrent calls
// for the same (user, exercise) can race and lose an increment. Accepted for
// the single-user, low-frequency access pattern this serves.
func (t *Tracker) IncrementAttempts(ctx context.Context, userID, exerciseID string) {
	if userID == "" {
		return
	}

	entry := &models.ProgressEntry{
		UserID:     userID,
		ExerciseID: exerciseID,
	}
	if current, err := t.store.GetByExercise(ctx, userID, exerciseID); err == nil {
		entry.Completed = current.Completed
		entry.Score = current.Score
		entry.Attempts = current.Attempts
	} else if !errors.Is(err, storage.ErrProgressNotFound) {
		t.logger.Error("Failed to read progress for increment", "user", userID, "exercise", exerciseID, "error", err)
		return
	}

	entry.Attempts++
	entry.LastAttempt = t.now()

	if err := t.store.Upsert(ctx, entry); err != nil {
		t.logger.Error("Failed to increment attempts", "user", userID, "exercise", exerciseID, "error", err)
	}
}

// GetProfile returns the user's aggregate totals, or nil when anonymous or
// absent.
func (t *Tracker) GetProfile(ctx context.Context, userID string) *models.UserProfile {
	if userID == "" {
		return nil
	}

	profile, err := t.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrProfileNotFound) {
			t.logger.Error("Failed to fetch profile", "user", userID, "error", err)
		}
		return nil
	}
	return profile
}
