package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/siteblog/blog/domain"
	"github.com/rs/zerolog/log"
)

var (
	publishedPosts = domain.PostFilter{PublishedOnly: true}
	broadcastPosts = domain.PostFilter{PublishedOnly: true, BroadcastOnly: true}
	allPosts       = domain.PostFilter{}
)

// PostService answers blog queries over a domain.PostRepository.
// It keeps no state of its own; consistency is the repository's concern.
type PostService struct {
	repo domain.PostRepository
	now  func() time.Time
}

func NewPostService(repo domain.PostRepository) *PostService {
	return &PostService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// GetPost returns the post with the given id, draft or not
func (s *PostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.repo.FindPost(ctx, id)
}

// GetPublishedPost returns the post with the given id, hiding drafts behind a NotFoundError
func (s *PostService) GetPublishedPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.repo.FindPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.IsPublished() {
		log.Debug().Int64("postID", id).Msg("Hiding draft post from published lookup")
		return nil, domain.NewNotFoundError(id)
	}

	return post, nil
}

// MostRecentPosts lists published posts, newest first
func (s *PostService) MostRecentPosts(ctx context.Context, page domain.PageRequest) ([]*domain.Post, error) {
	return s.repo.FindPosts(ctx, publishedPosts, page)
}

// MostRecentPostsForCategory lists published posts in category, newest first
func (s *PostService) MostRecentPostsForCategory(ctx context.Context, category domain.PostCategory, page domain.PageRequest) ([]*domain.Post, error) {
	return s.repo.FindPosts(ctx, categoryFilter(category), page)
}

// MostRecentBroadcastPosts lists published broadcast posts, newest first
func (s *PostService) MostRecentBroadcastPosts(ctx context.Context, page domain.PageRequest) ([]*domain.Post, error) {
	return s.repo.FindPosts(ctx, broadcastPosts, page)
}

// AllPosts lists every post including drafts
func (s *PostService) AllPosts(ctx context.Context, page domain.PageRequest) ([]*domain.Post, error) {
	return s.repo.FindPosts(ctx, allPosts, page)
}

// PaginationInfo computes page metadata against the total number of posts
func (s *PostService) PaginationInfo(ctx context.Context, page domain.PageRequest) (domain.PaginationInfo, error) {
	return s.paginationInfo(ctx, allPosts, page)
}

func (s *PostService) PublishedPaginationInfo(ctx context.Context, page domain.PageRequest) (domain.PaginationInfo, error) {
	return s.paginationInfo(ctx, publishedPosts, page)
}

func (s *PostService) CategoryPaginationInfo(ctx context.Context, category domain.PostCategory, page domain.PageRequest) (domain.PaginationInfo, error) {
	return s.paginationInfo(ctx, categoryFilter(category), page)
}

func (s *PostService) BroadcastPaginationInfo(ctx context.Context, page domain.PageRequest) (domain.PaginationInfo, error) {
	return s.paginationInfo(ctx, broadcastPosts, page)
}

func (s *PostService) paginationInfo(ctx context.Context, filter domain.PostFilter, page domain.PageRequest) (domain.PaginationInfo, error) {
	total, err := s.repo.CountPosts(ctx, filter)
	if err != nil {
		return domain.PaginationInfo{}, fmt.Errorf("could not count posts: %w", err)
	}
	return domain.NewPaginationInfo(page, total), nil
}

// CreatePost validates and stores a new post
func (s *PostService) CreatePost(ctx context.Context, post *domain.Post) error {
	if post == nil {
		return fmt.Errorf("post cannot be nil")
	}
	if post.ID != 0 {
		return fmt.Errorf("new post cannot have an ID (got %d)", post.ID)
	}

	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return fmt.Errorf("post title cannot be empty")
	}
	if !post.Category.Valid() {
		return fmt.Errorf("invalid post category %q", post.Category)
	}

	if err := s.repo.SavePost(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	log.Info().Int64("postID", post.ID).Bool("draft", post.Draft).Msg("Created post")
	return nil
}

// PublishPost makes a draft visible on public listings
func (s *PostService) PublishPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.setDraft(ctx, id, false)
}

// UnpublishPost turns a post back into a draft
func (s *PostService) UnpublishPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.setDraft(ctx, id, true)
}

func (s *PostService) setDraft(ctx context.Context, id int64, draft bool) (*domain.Post, error) {
	post, err := s.repo.FindPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.Draft == draft {
		return post, nil
	}

	post.Draft = draft
	post.UpdatedAt = s.now()
	if err := s.repo.SavePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}

	log.Info().Int64("postID", id).Bool("draft", draft).Msg("Changed post status")
	return post, nil
}

func categoryFilter(category domain.PostCategory) domain.PostFilter {
	return domain.PostFilter{PublishedOnly: true, Category: &category}
}
