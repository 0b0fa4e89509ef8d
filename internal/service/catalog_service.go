package service

import (
	"blogicum/internal/data"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

const categoryCachePrefix = "category:"

// CatalogService manages the reference data posts are filed under:
// categories and locations.
type CatalogService struct {
	categories CategoryRepository
	locations  LocationRepository
	cache      Cache
	ttl        time.Duration
	now        Clock
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(categories CategoryRepository, locations LocationRepository, cache Cache, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{
		categories: categories,
		locations:  locations,
		cache:      cache,
		ttl:        ttl,
		now:        time.Now,
	}
}

// PublishedCategory returns the category for slug if it exists and is
// published. Hits are served from the cache.
func (s *CatalogService) PublishedCategory(ctx context.Context, slug string) (*data.Category, error) {
	key := categoryCachePrefix + slug
	if s.cache != nil {
		if raw, err := s.cache.Get(key); err == nil && raw != nil {
			var category data.Category
			if err := json.Unmarshal(raw, &category); err == nil {
				return &category, nil
			}
		}
	}

	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !category.IsPublished {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if raw, err := json.Marshal(category); err == nil {
			_ = s.cache.Set(key, raw, s.ttl)
		}
	}
	return category, nil
}

// Categories lists the categories offered on the post form.
func (s *CatalogService) Categories(ctx context.Context) ([]*data.Category, error) {
	return s.categories.ListPublished(ctx)
}

// AllCategories lists every category, hidden ones included.
func (s *CatalogService) AllCategories(ctx context.Context) ([]*data.Category, error) {
	return s.categories.GetAll(ctx)
}

// Locations lists the locations offered on the post form.
func (s *CatalogService) Locations(ctx context.Context) ([]*data.Location, error) {
	return s.locations.ListPublished(ctx)
}

// AddCategory validates and stores a new category.
func (s *CatalogService) AddCategory(ctx context.Context, title, description, slug string, published bool) (*data.Category, error) {
	verr := &ValidationError{}
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		verr.Add("title", "This field is required.")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.Add("title", "Ensure this value has at most 256 characters.")
	}
	if !slugPattern.MatchString(slug) {
		verr.Add("slug", "Use only latin letters, digits, hyphens and underscores.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	category := &data.Category{
		Title:       title,
		Description: strings.TrimSpace(description),
		Slug:        slug,
		IsPublished: published,
		CreatedAt:   stamp(s.now()),
	}
	if _, err := s.categories.Save(ctx, category); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, &ValidationError{Fields: map[string]string{"slug": "A category with this slug already exists."}}
		}
		return nil, err
	}
	return category, nil
}

// SetCategoryPublished shows or hides the category with slug.
func (s *CatalogService) SetCategoryPublished(ctx context.Context, slug string, published bool) error {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.categories.SetPublished(ctx, category.ID, published); err != nil {
		return err
	}
	s.forget(slug)
	return nil
}

// DeleteCategory removes the category with slug. Its posts stay, uncategorised.
func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return err
	}
	s.forget(slug)
	return nil
}

// AddLocation validates and stores a new location.
func (s *CatalogService) AddLocation(ctx context.Context, name string, published bool) (*data.Location, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, &ValidationError{Fields: map[string]string{"name": "This field is required."}}
	case utf8.RuneCountInString(name) > maxTitleLength:
		return nil, &ValidationError{Fields: map[string]string{"name": "Ensure this value has at most 256 characters."}}
	}
	location := &data.Location{Name: name, IsPublished: published, CreatedAt: stamp(s.now())}
	if _, err := s.locations.Save(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes a location. Its posts stay, without a location.
func (s *CatalogService) DeleteLocation(ctx context.Context, id int64) error {
	return s.locations.Delete(ctx, id)
}

func (s *CatalogService) forget(slug string) {
	if s.cache != nil {
		_ = s.cache.Delete(categoryCachePrefix + slug)
	}
}
