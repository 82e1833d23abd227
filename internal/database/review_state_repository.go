package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// ReviewStateRepository persists per-item spaced-repetition state.
type ReviewStateRepository struct {
	db *sqlx.DB
}

// NewReviewStateRepository creates a new repository instance.
func NewReviewStateRepository(db *sqlx.DB) *ReviewStateRepository {
	return &ReviewStateRepository{db: db}
}

// Get returns the state for a (user, question) pair, or errs.ErrNotFound.
func (r *ReviewStateRepository) Get(ctx context.Context, userID, questionID int64) (*models.ReviewState, error) {
	var state models.ReviewState
	query := r.db.Rebind("SELECT * FROM review_states WHERE user_id = ? AND question_id = ?")
	if err := r.db.GetContext(ctx, &state, query, userID, questionID); err != nil {
		return nil, notFoundOr(err, errs.ErrNotFound, "failed to get review state")
	}
	return &state, nil
}

// Create inserts a new review state and backfills its ID.
func (r *ReviewStateRepository) Create(ctx context.Context, state *models.ReviewState) error {
	query := `
		INSERT INTO review_states (
			user_id, question_id, ease_factor, interval, repetitions,
			next_review, last_review_at, last_is_correct, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	`
	args := []interface{}{
		state.UserID,
		state.QuestionID,
		state.EaseFactor,
		state.Interval,
		state.Repetitions,
		state.NextReview,
		state.LastReviewAt,
		state.LastIsCorrect,
	}
	if r.db.DriverName() == "postgres" {
		query = r.db.Rebind(query + " RETURNING id")
		return errors.Wrap(
			r.db.QueryRowxContext(ctx, query, args...).Scan(&state.ID),
			"failed to create review state",
		)
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return errors.Wrap(err, "failed to create review state")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get last insert ID")
	}
	state.ID = id
	return nil
}

// Update persists a mutated state with a compare-and-swap on the version
// column. A stale version means another writer got there first; callers see
// that as errs.ErrConflict, never as a silent lost update.
func (r *ReviewStateRepository) Update(ctx context.Context, state *models.ReviewState) error {
	query := r.db.Rebind(`
		UPDATE review_states SET
			ease_factor = ?,
			interval = ?,
			repetitions = ?,
			next_review = ?,
			last_review_at = ?,
			last_is_correct = ?,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		state.EaseFactor,
		state.Interval,
		state.Repetitions,
		state.NextReview,
		state.LastReviewAt,
		state.LastIsCorrect,
		state.ID,
		state.Version,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update review state")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errs.ErrConflict, "review state %d version %d", state.ID, state.Version)
	}
	state.Version++
	return nil
}

// QueryDue returns the user's states with next_review at or before asOf,
// earliest-due first.
func (r *ReviewStateRepository) QueryDue(ctx context.Context, userID int64, asOf time.Time) ([]models.ReviewState, error) {
	query := r.db.Rebind(`
		SELECT * FROM review_states
		WHERE user_id = ? AND next_review IS NOT NULL AND next_review <= ?
		ORDER BY next_review ASC
	`)
	states := []models.ReviewState{}
	if err := r.db.SelectContext(ctx, &states, query, userID, asOf); err != nil {
		return nil, errors.Wrap(err, "failed to get due review states")
	}
	return states, nil
}

// ListByUser returns all of a user's review states.
func (r *ReviewStateRepository) ListByUser(ctx context.Context, userID int64) ([]models.ReviewState, error) {
	query := r.db.Rebind("SELECT * FROM review_states WHERE user_id = ?")
	states := []models.ReviewState{}
	if err := r.db.SelectContext(ctx, &states, query, userID); err != nil {
		return nil, errors.Wrap(err, "failed to list review states")
	}
	return states, nil
}
