package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PostCategory tags a post with the section of the blog it belongs to
type PostCategory string

const (
	CategoryEngineering   PostCategory = "ENGINEERING"
	CategoryReleases      PostCategory = "RELEASES"
	CategoryNewsAndEvents PostCategory = "NEWS_AND_EVENTS"
)

var categories = []PostCategory{
	CategoryEngineering,
	CategoryReleases,
	CategoryNewsAndEvents,
}

// Categories returns every known category in display order
func Categories() []PostCategory {
	out := make([]PostCategory, len(categories))
	copy(out, categories)
	return out
}

// ParsePostCategory resolves a category name, ignoring case
func ParsePostCategory(s string) (PostCategory, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown post category: %q", s)
}

func (c PostCategory) Valid() bool {
	_, err := ParsePostCategory(string(c))
	return err == nil
}

// Post represents a blog post
// A post is visible on public listings once it is no longer a draft.
// Broadcast posts additionally show up on the broadcast listing.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Category  PostCategory
	Broadcast bool
	Draft     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Post) IsPublished() bool {
	return !p.Draft
}

// PostFilter narrows a post query. The zero value matches every post.
type PostFilter struct {
	PublishedOnly bool
	Category      *PostCategory
	BroadcastOnly bool
}

type PostRepository interface {
	SavePost(ctx context.Context, p *Post) error
	SavePosts(ctx context.Context, posts []*Post) error
	FindPost(ctx context.Context, id int64) (*Post, error)
	// FindPosts returns matching posts ordered most recent first
	FindPosts(ctx context.Context, filter PostFilter, page PageRequest) ([]*Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)
	DeletePost(ctx context.Context, id int64) error
}
