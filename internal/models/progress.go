package models

import "time"

//
// ProgressEntry (user_progress table)
//

// ProgressEntry is one user's state for one exercise, keyed by the
// (user_id, exercise_id) pair. Completed only ever transitions false to true;
// Attempts is non-decreasing. Rows are upserted, never deleted.
type ProgressEntry struct {
	UserID      string    `db:"user_id" json:"user_id"`
	ExerciseID  string    `db:"exercise_id" json:"exercise_id"`
	Completed   bool      `db:"completed" json:"completed"`
	Score       int       `db:"score" json:"score"`
	Attempts    int       `db:"attempts" json:"attempts"`
	LastAttempt time.Time `db:"last_attempt" json:"last_attempt"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UserProfile (user_profiles table) carries the aggregate totals for a user.
// Totals are recomputed from completed user_progress rows on every completion
// rather than incremented, so they cannot drift from the underlying rows.
type UserProfile struct {
	ID                      string    `db:"id" json:"id"`
	TotalExercisesCompleted int       `db:"total_exercises_completed" json:"total_exercises_completed"`
	TotalScore              int       `db:"total_score" json:"total_score"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}
