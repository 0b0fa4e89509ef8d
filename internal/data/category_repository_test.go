//go:build integration

package data_test

import (
	"blogicum/internal/data"
	"blogicum/internal/testutil"
	"context"
	"errors"
	"testing"
	"time"
)

func TestCategoryRepository_Save(t *testing.T) {
	db := testutil.NewDB(t)
	repo := data.NewCategoryRepository(db)

	category := &data.Category{Title: "Travel", Slug: "travel", IsPublished: true, CreatedAt: time.Now().UTC()}
	id, err := repo.Save(context.Background(), category)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}
	if category.ID != id {
		t.Errorf("expected category.ID %d, got %d", id, category.ID)
	}
}

func TestCategoryRepository_SaveDuplicateSlug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := data.NewCategoryRepository(db)
	testutil.CreateCategory(t, db, "travel", true)

	_, err := repo.Save(context.Background(), &data.Category{Title: "Again", Slug: "travel", CreatedAt: time.Now().UTC()})
	if !errors.Is(err, data.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCategoryRepository_GetBySlug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := data.NewCategoryRepository(db)
	testutil.CreateCategory(t, db, "sports", false)

	found, err := repo.GetBySlug(context.Background(), "sports")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Slug != "sports" || found.IsPublished {
		t.Errorf("unexpected category: %+v", found)
	}

	_, err = repo.GetBySlug(context.Background(), "basketball")
	if !errors.Is(err, data.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryRepository_ListPublished(t *testing.T) {
	db := testutil.NewDB(t)
	repo := data.NewCategoryRepository(db)
	testutil.CreateCategory(t, db, "books", true)
	testutil.CreateCategory(t, db, "drafts", false)
	testutil.CreateCategory(t, db, "music", true)

	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 categories, got %d", len(all))
	}

	published, err := repo.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published categories, got %d", len(published))
	}
	if published[0].Slug != "books" || published[1].Slug != "music" {
		t.Errorf("unexpected order: %s, %s", published[0].Slug, published[1].Slug)
	}
}

func TestCategoryRepository_SetPublished(t *testing.T) {
	db := testutil.NewDB(t)
	repo := data.NewCategoryRepository(db)
	category := testutil.CreateCategory(t, db, "news", true)

	if err := repo.SetPublished(context.Background(), category.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, err := repo.GetByID(context.Background(), category.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.IsPublished {
		t.Error("expected category to be hidden")
	}
}

func TestCategoryRepository_DeleteKeepsPosts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := data.NewCategoryRepository(db)
	posts := data.NewSQLPostRepository(db)
	author := testutil.CreateUser(t, db, "alice")
	category := testutil.CreateCategory(t, db, "travel", true)
	first := testutil.CreatePost(t, db, author, "First", testutil.InCategory(category))
	second := testutil.CreatePost(t, db, author, "Second", testutil.InCategory(category))

	if err := repo.Delete(context.Background(), category.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []int64{first.ID, second.ID} {
		post, err := posts.GetPostByID(context.Background(), id)
		if err != nil {
			t.Fatalf("post %d should survive category deletion: %v", id, err)
		}
		if post.CategoryID != nil {
			t.Errorf("post %d: expected nil category, got %d", id, *post.CategoryID)
		}
	}

	if err := repo.Delete(context.Background(), category.ID); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
