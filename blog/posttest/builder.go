// Package posttest builds domain.Post values for tests.
package posttest

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dfryer1193/siteblog/blog/domain"
)

var seq atomic.Int64

// Builder starts from a published, non-broadcast engineering post
type Builder struct {
	post domain.Post
}

func Post() *Builder {
	n := seq.Add(1)
	return &Builder{
		post: domain.Post{
			Title:    fmt.Sprintf("Post Title %d", n),
			Content:  fmt.Sprintf("Content of post %d", n),
			Category: domain.CategoryEngineering,
		},
	}
}

func (b *Builder) Title(title string) *Builder {
	b.post.Title = title
	return b
}

func (b *Builder) Draft() *Builder {
	b.post.Draft = true
	return b
}

func (b *Builder) Broadcast() *Builder {
	b.post.Broadcast = true
	return b
}

func (b *Builder) Category(c domain.PostCategory) *Builder {
	b.post.Category = c
	return b
}

func (b *Builder) CreatedAt(t time.Time) *Builder {
	b.post.CreatedAt = t
	return b
}

func (b *Builder) Build() *domain.Post {
	p := b.post
	return &p
}
