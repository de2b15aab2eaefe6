package api

import (
	"time"

	"github.com/dfryer1193/siteblog/blog/domain"
)

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Broadcast bool      `json:"broadcast"`
	Draft     bool      `json:"draft"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PostPage is one page of a post listing
type PostPage struct {
	Posts      []Post                `json:"posts"`
	Pagination domain.PaginationInfo `json:"pagination"`
}

func NewPost(p *domain.Post) Post {
	return Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  string(p.Category),
		Broadcast: p.Broadcast,
		Draft:     p.Draft,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewPostPage(posts []*domain.Post, info domain.PaginationInfo) PostPage {
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = NewPost(p)
	}
	return PostPage{Posts: out, Pagination: info}
}
