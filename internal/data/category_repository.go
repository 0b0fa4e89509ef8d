package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// GetBySlug finds a category by its slug regardless of its published state.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT * FROM categories WHERE slug = ?", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return &category, nil
}

// GetAll retrieves all categories ordered by title.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	err := r.DB.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// ListPublished retrieves the categories authors may file posts under.
func (r *CategoryRepository) ListPublished(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	err := r.DB.SelectContext(ctx, &categories, "SELECT * FROM categories WHERE is_published = ? ORDER BY title, id", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get published categories: %w", err)
	}
	return categories, nil
}

// Save creates a new category and returns its ID.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (int64, error) {
	res, err := r.DB.NamedExecContext(ctx, `INSERT INTO categories (title, description, slug, is_published, created_at)
		VALUES (:title, :description, :slug, :is_published, :created_at)`, category)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("category slug %q: %w", category.Slug, ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to save category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	category.ID = id
	return id, nil
}

// SetPublished toggles the published flag of a category.
func (r *CategoryRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	result, err := r.DB.ExecContext(ctx, "UPDATE categories SET is_published = ? WHERE id = ?", published, id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return expectAffected(result, "category", id)
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return &category, nil
}

// Delete removes a category. Posts filed under it keep existing with no
// category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return expectAffected(result, "category", id)
}
