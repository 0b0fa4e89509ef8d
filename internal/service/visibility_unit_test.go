//go:build unit

package service

import (
	"blogicum/internal/data"
	"testing"
	"time"
)

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(i int64) *int64 { return &i }

func TestVisibility(t *testing.T) {
	const authorID = int64(7)
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)

	testCases := []struct {
		name       string
		post       data.Post
		wantPublic bool
	}{
		{
			name:       "published and due, no category",
			post:       data.Post{IsPublished: true, PubDate: past},
			wantPublic: true,
		},
		{
			name:       "due exactly now",
			post:       data.Post{IsPublished: true, PubDate: fixedNow},
			wantPublic: true,
		},
		{
			name:       "published category",
			post:       data.Post{IsPublished: true, PubDate: past, CategoryID: int64Ptr(1), CategoryIsPublished: boolPtr(true)},
			wantPublic: true,
		},
		{
			name: "unpublished",
			post: data.Post{IsPublished: false, PubDate: past},
		},
		{
			name: "scheduled",
			post: data.Post{IsPublished: true, PubDate: future},
		},
		{
			name: "hidden category",
			post: data.Post{IsPublished: true, PubDate: past, CategoryID: int64Ptr(1), CategoryIsPublished: boolPtr(false)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			post := tc.post
			post.AuthorID = authorID

			if got := IsPubliclyVisible(&post, fixedNow); got != tc.wantPublic {
				t.Errorf("IsPubliclyVisible = %v, want %v", got, tc.wantPublic)
			}
			if got := VisibleTo(Anonymous, &post, fixedNow); got != tc.wantPublic {
				t.Errorf("VisibleTo(anonymous) = %v, want %v", got, tc.wantPublic)
			}
			if got := VisibleTo(authorID+1, &post, fixedNow); got != tc.wantPublic {
				t.Errorf("VisibleTo(other user) = %v, want %v", got, tc.wantPublic)
			}
			if !VisibleTo(authorID, &post, fixedNow) {
				t.Error("the author must always see their own post")
			}
		})
	}
}

func TestVisibility_NilPost(t *testing.T) {
	if IsPubliclyVisible(nil, fixedNow) || VisibleTo(1, nil, fixedNow) {
		t.Error("a missing post is never visible")
	}
}
