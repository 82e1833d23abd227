package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// QuestionRepository persists the question bank.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new repository instance.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Get returns a question by ID, or errs.ErrNotFound.
func (r *QuestionRepository) Get(ctx context.Context, id int64) (*models.Question, error) {
	var question models.Question
	query := r.db.Rebind(`
		SELECT q.*, c.name AS category_name
		FROM questions q
		JOIN categories c ON q.category_id = c.id
		WHERE q.id = ?
	`)
	if err := r.db.GetContext(ctx, &question, query, id); err != nil {
		return nil, notFoundOr(err, errs.ErrNotFound, "failed to get question")
	}
	return &question, nil
}

// ByDifficulty returns one random question at exactly the given difficulty,
// excluding the given IDs. An empty pool is errs.ErrExhaustedContent, not a
// fallback to a neighboring difficulty.
func (r *QuestionRepository) ByDifficulty(ctx context.Context, difficulty int, excludeIDs []int64) (*models.Question, error) {
	query := `
		SELECT q.*, c.name AS category_name
		FROM questions q
		JOIN categories c ON q.category_id = c.id
		WHERE q.difficulty = ?
	`
	args := []interface{}{difficulty}
	if len(excludeIDs) > 0 {
		in, inArgs, err := sqlx.In("q.id NOT IN (?)", excludeIDs)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build exclusion clause")
		}
		query += " AND " + in
		args = append(args, inArgs...)
	}
	query += " ORDER BY RANDOM() LIMIT 1"

	var question models.Question
	if err := r.db.GetContext(ctx, &question, r.db.Rebind(query), args...); err != nil {
		return nil, notFoundOr(err, errs.ErrExhaustedContent, "failed to pick question by difficulty")
	}
	return &question, nil
}

// ListByCategory returns all questions in a category.
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Question, error) {
	query := r.db.Rebind(`
		SELECT q.*, c.name AS category_name
		FROM questions q
		JOIN categories c ON q.category_id = c.id
		WHERE q.category_id = ?
		ORDER BY q.id
	`)
	questions := []models.Question{}
	if err := r.db.SelectContext(ctx, &questions, query, categoryID); err != nil {
		return nil, errors.Wrap(err, "failed to list questions")
	}
	return questions, nil
}

// Create inserts a question and backfills its ID.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.Source == "" {
		question.Source = models.SourceBank
	}
	query := `
		INSERT INTO questions (category_id, text, options, correct_index, rationale, difficulty, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	args := []interface{}{
		question.CategoryID,
		question.Text,
		question.Options,
		question.CorrectIndex,
		question.Rationale,
		question.Difficulty,
		question.Source,
	}
	if r.db.DriverName() == "postgres" {
		query = r.db.Rebind(query + " RETURNING id")
		return errors.Wrap(
			r.db.QueryRowxContext(ctx, query, args...).Scan(&question.ID),
			"failed to create question",
		)
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return errors.Wrap(err, "failed to create question")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get last insert ID")
	}
	question.ID = id
	return nil
}
