package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// LocationRepository handles database operations for locations.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Save creates a new location and returns its ID.
func (r *LocationRepository) Save(ctx context.Context, location *Location) (int64, error) {
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO locations (name, is_published, created_at)
		VALUES (:name, :is_published, :created_at)`, location)
	if err != nil {
		return 0, fmt.Errorf("failed to save location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	location.ID = id
	return id, nil
}

// GetByID finds a location by its ID.
func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*Location, error) {
	var location Location
	err := r.db.GetContext(ctx, &location, "SELECT * FROM locations WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get location by id: %w", err)
	}
	return &location, nil
}

// ListPublished retrieves the locations offered on the post form.
func (r *LocationRepository) ListPublished(ctx context.Context) ([]*Location, error) {
	var locations []*Location
	err := r.db.SelectContext(ctx, &locations, "SELECT * FROM locations WHERE is_published = ? ORDER BY name, id", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}
	return locations, nil
}

// Delete removes a location; referencing posts lose their location.
func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return expectAffected(result, "location", id)
}
