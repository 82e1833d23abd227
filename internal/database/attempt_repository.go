package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// AttemptRepository persists simulation attempts and their answer logs.
type AttemptRepository struct {
	db *sqlx.DB
}

// NewAttemptRepository creates a new repository instance.
func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create inserts a new attempt.
func (r *AttemptRepository) Create(ctx context.Context, attempt *models.SimulationAttempt) error {
	query := r.db.Rebind(`
		INSERT INTO simulation_attempts (
			id, user_id, session_type, total_questions, current_difficulty,
			answered_count, correct_count, mastery_estimate, started_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.SessionType,
		attempt.TotalQuestions,
		attempt.CurrentDifficulty,
		attempt.AnsweredCount,
		attempt.CorrectCount,
		attempt.MasteryEstimate,
		attempt.StartedAt,
		attempt.CompletedAt,
	)
	return errors.Wrap(err, "failed to create attempt")
}

// Get returns an attempt by ID, or errs.ErrNotFound.
func (r *AttemptRepository) Get(ctx context.Context, id string) (*models.SimulationAttempt, error) {
	var attempt models.SimulationAttempt
	query := r.db.Rebind("SELECT * FROM simulation_attempts WHERE id = ?")
	if err := r.db.GetContext(ctx, &attempt, query, id); err != nil {
		return nil, notFoundOr(err, errs.ErrNotFound, "failed to get attempt")
	}
	return &attempt, nil
}

// Update persists the attempt's walk state and completion.
func (r *AttemptRepository) Update(ctx context.Context, attempt *models.SimulationAttempt) error {
	query := r.db.Rebind(`
		UPDATE simulation_attempts SET
			current_difficulty = ?,
			answered_count = ?,
			correct_count = ?,
			mastery_estimate = ?,
			completed_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		attempt.CurrentDifficulty,
		attempt.AnsweredCount,
		attempt.CorrectCount,
		attempt.MasteryEstimate,
		attempt.CompletedAt,
		attempt.ID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update attempt")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errs.ErrNotFound, "attempt %s", attempt.ID)
	}
	return nil
}

// AppendAnswer adds one entry to an attempt's answer log.
func (r *AttemptRepository) AppendAnswer(ctx context.Context, answer *models.AttemptAnswer) error {
	query := r.db.Rebind(`
		INSERT INTO attempt_answers (
			attempt_id, question_id, position, answer_index, is_correct, time_spent_sec
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		answer.AttemptID,
		answer.QuestionID,
		answer.Position,
		answer.AnswerIndex,
		answer.IsCorrect,
		answer.TimeSpentSec,
	)
	return errors.Wrap(err, "failed to append answer")
}

// Answers returns an attempt's answer log in submission order.
func (r *AttemptRepository) Answers(ctx context.Context, attemptID string) ([]models.AttemptAnswer, error) {
	query := r.db.Rebind("SELECT * FROM attempt_answers WHERE attempt_id = ? ORDER BY position ASC")
	answers := []models.AttemptAnswer{}
	if err := r.db.SelectContext(ctx, &answers, query, attemptID); err != nil {
		return nil, errors.Wrap(err, "failed to get attempt answers")
	}
	return answers, nil
}

// CategoryStats aggregates a user's answer accuracy per question category
// across all attempts.
func (r *AttemptRepository) CategoryStats(ctx context.Context, userID int64) ([]models.CategoryStat, error) {
	query := r.db.Rebind(`
		SELECT
			c.id AS category_id,
			c.name AS category_name,
			COUNT(*) AS total,
			SUM(CASE WHEN aa.is_correct THEN 1 ELSE 0 END) AS correct
		FROM attempt_answers aa
		JOIN simulation_attempts sa ON aa.attempt_id = sa.id
		JOIN questions q ON aa.question_id = q.id
		JOIN categories c ON q.category_id = c.id
		WHERE sa.user_id = ?
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	stats := []models.CategoryStat{}
	if err := r.db.SelectContext(ctx, &stats, query, userID); err != nil {
		return nil, errors.Wrap(err, "failed to get category stats")
	}
	return stats, nil
}
