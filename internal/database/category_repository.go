package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/pkg/models"
)

// CategoryRepository persists NCLEX question categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new repository instance.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll returns every category.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY name"); err != nil {
		return nil, errors.Wrap(err, "failed to get categories")
	}
	return categories, nil
}

// GetOrCreate returns the category with the given name, creating it if it
// does not exist yet.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	query := r.db.Rebind("SELECT * FROM categories WHERE name = ?")
	err := r.db.GetContext(ctx, &category, query, name)
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to get category")
	}

	insert := "INSERT INTO categories (name) VALUES (?)"
	if r.db.DriverName() == "postgres" {
		insert = r.db.Rebind(insert + " RETURNING id")
		if err := r.db.QueryRowxContext(ctx, insert, name).Scan(&category.ID); err != nil {
			return nil, errors.Wrap(err, "failed to create category")
		}
		category.Name = name
		return &category, nil
	}
	result, err := r.db.ExecContext(ctx, r.db.Rebind(insert), name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get last insert ID")
	}
	category.ID = id
	category.Name = name
	return &category, nil
}
