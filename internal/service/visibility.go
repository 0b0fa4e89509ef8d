package service

import (
	"blogicum/internal/data"
	"time"
)

// Anonymous is the viewer ID of a request without a logged-in user.
const Anonymous int64 = 0

// IsPubliclyVisible reports whether anyone may see post at now: it must be
// published, due, and either uncategorised or in a published category.
func IsPubliclyVisible(post *data.Post, now time.Time) bool {
	if post == nil {
		return false
	}
	return post.IsPublished && !post.PubDate.After(now) && post.HasPublishedCategory()
}

// VisibleTo reports whether viewerID may see post at now. Authors always see
// their own posts.
func VisibleTo(viewerID int64, post *data.Post, now time.Time) bool {
	if post == nil {
		return false
	}
	if viewerID != Anonymous && post.AuthorID == viewerID {
		return true
	}
	return IsPubliclyVisible(post, now)
}

// publicFilter restricts a listing to posts visible at now. The instant is
// stamped like stored dates so SQL compares values in the same zone.
func publicFilter(now time.Time) data.PostFilter {
	at := stamp(now)
	return data.PostFilter{PublicAt: &at}
}
