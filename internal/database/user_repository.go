package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/errs"
	"github.com/example/nclexprep/pkg/models"
)

// UserRepository persists user accounts and study preferences.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Get returns a user by ID, or errs.ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT * FROM users WHERE id = ?")
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, notFoundOr(err, errs.ErrNotFound, "failed to get user")
	}
	return &user, nil
}

// Create inserts a new user and backfills the ID.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, questions_per_day, reminder_hour, reminders_enabled)
		VALUES (?, ?, ?, ?, ?)
	`
	args := []interface{}{
		user.Email,
		user.Name,
		user.QuestionsPerDay,
		user.ReminderHour,
		user.RemindersEnabled,
	}
	if r.db.DriverName() == "postgres" {
		query = r.db.Rebind(query + " RETURNING id")
		return errors.Wrap(
			r.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID),
			"failed to create user",
		)
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get last insert ID")
	}
	user.ID = id
	return nil
}

// WithRemindersAt returns users who opted into reminders for the given hour.
func (r *UserRepository) WithRemindersAt(ctx context.Context, hour int) ([]models.User, error) {
	query := r.db.Rebind("SELECT * FROM users WHERE reminders_enabled AND reminder_hour = ?")
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, hour); err != nil {
		return nil, errors.Wrap(err, "failed to get users for reminders")
	}
	return users, nil
}
