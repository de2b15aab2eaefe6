package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dfryer1193/siteblog/blog/domain"
	"github.com/dfryer1193/siteblog/blog/posttest"
	"github.com/dfryer1193/siteblog/shared/db/sqlite"
)

// setupTestDB creates a migrated in-memory SQLite database for testing
func setupTestDB(t *testing.T) *sql.DB {
	conn, err := sqlite.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func savePosts(t *testing.T, repo *SQLitePostRepository, posts ...*domain.Post) {
	t.Helper()
	for _, p := range posts {
		if err := repo.SavePost(context.Background(), p); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}
}

func ids(posts []*domain.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPostRepository_SavePost_Insert(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	post := &domain.Post{
		Title:     "Test Post",
		Content:   "This is a test post",
		Category:  domain.CategoryReleases,
		Broadcast: true,
		CreatedAt: now,
	}

	if err := repo.SavePost(ctx, post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("SavePost did not assign an ID")
	}

	retrieved, err := repo.FindPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("FindPost failed: %v", err)
	}

	if retrieved.ID != post.ID {
		t.Errorf("ID = %v, want %v", retrieved.ID, post.ID)
	}
	if retrieved.Title != post.Title {
		t.Errorf("Title = %v, want %v", retrieved.Title, post.Title)
	}
	if retrieved.Content != post.Content {
		t.Errorf("Content = %v, want %v", retrieved.Content, post.Content)
	}
	if retrieved.Category != post.Category {
		t.Errorf("Category = %v, want %v", retrieved.Category, post.Category)
	}
	if !retrieved.Broadcast {
		t.Error("Broadcast = false, want true")
	}
	if retrieved.Draft {
		t.Error("Draft = true, want false")
	}
	if !retrieved.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", retrieved.CreatedAt, now)
	}
	if !retrieved.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt = %v, want zero value", retrieved.UpdatedAt)
	}
}

func TestPostRepository_SavePost_DefaultsCreatedAt(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	post := posttest.Post().Build()
	savePosts(t, repo, post)

	if !post.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, fixed)
	}
}

func TestPostRepository_SavePost_Update(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	post := posttest.Post().Title("Original Title").Draft().CreatedAt(created).Build()
	savePosts(t, repo, post)

	later := created.Add(time.Hour)
	post.Title = "Updated Title"
	post.Draft = false
	post.UpdatedAt = later
	post.CreatedAt = later
	savePosts(t, repo, post)

	retrieved, err := repo.FindPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("FindPost failed: %v", err)
	}

	if retrieved.Title != "Updated Title" {
		t.Errorf("Title = %v, want %v", retrieved.Title, "Updated Title")
	}
	if retrieved.Draft {
		t.Error("Draft = true, want false")
	}
	if !retrieved.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", retrieved.UpdatedAt, later)
	}
	if !retrieved.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v (should not change on update)", retrieved.CreatedAt, created)
	}
	if !post.CreatedAt.Equal(retrieved.CreatedAt) {
		t.Errorf("saved post CreatedAt = %v, stored %v", post.CreatedAt, retrieved.CreatedAt)
	}
}

func TestPostRepository_SavePost_NilPost(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	if err := repo.SavePost(context.Background(), nil); err == nil {
		t.Error("SavePost should return error for nil post")
	}
}

func TestPostRepository_SavePosts_Atomic(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	posts := []*domain.Post{posttest.Post().Build(), posttest.Post().Build(), nil}
	if err := repo.SavePosts(ctx, posts); err == nil {
		t.Fatal("SavePosts should fail when a post is nil")
	}

	count, err := repo.CountPosts(ctx, domain.PostFilter{})
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if count != 0 {
		t.Errorf("CountPosts = %d after failed batch, want 0", count)
	}

	for i, p := range posts[:2] {
		if p.ID != 0 {
			t.Errorf("posts[%d].ID = %d after rollback, want 0", i, p.ID)
		}
	}

	if err := repo.SavePosts(ctx, posts[:2]); err != nil {
		t.Fatalf("SavePosts retry failed: %v", err)
	}
	for i, p := range posts[:2] {
		if _, err := repo.FindPost(ctx, p.ID); err != nil {
			t.Errorf("FindPost(posts[%d]) after retry failed: %v", i, err)
		}
	}
}

func TestPostRepository_SavePosts_KeepsExistingIDsOnRollback(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	existing := posttest.Post().Build()
	savePosts(t, repo, existing)
	existingID := existing.ID

	if err := repo.SavePosts(ctx, []*domain.Post{existing, posttest.Post().Build(), nil}); err == nil {
		t.Fatal("SavePosts should fail when a post is nil")
	}

	if existing.ID != existingID {
		t.Errorf("existing.ID = %d after rollback, want %d", existing.ID, existingID)
	}
}

func TestPostRepository_FindPost_NotFound(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	_, err := repo.FindPost(context.Background(), 999)

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("FindPost error = %v, want NotFoundError", err)
	}
	if nf.ID != 999 {
		t.Errorf("NotFoundError.ID = %d, want 999", nf.ID)
	}
}

func TestPostRepository_FindPosts_Filters(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	engineering := posttest.Post().CreatedAt(base.Add(1 * time.Hour)).Build()
	news := posttest.Post().Category(domain.CategoryNewsAndEvents).CreatedAt(base.Add(2 * time.Hour)).Build()
	broadcast := posttest.Post().Broadcast().CreatedAt(base.Add(3 * time.Hour)).Build()
	draft := posttest.Post().Draft().CreatedAt(base.Add(4 * time.Hour)).Build()
	draftBroadcast := posttest.Post().Draft().Broadcast().CreatedAt(base.Add(5 * time.Hour)).Build()
	savePosts(t, repo, engineering, news, broadcast, draft, draftBroadcast)

	engineeringCategory := domain.CategoryEngineering

	tests := []struct {
		name   string
		filter domain.PostFilter
		want   []int64
	}{
		{
			name:   "all posts",
			filter: domain.PostFilter{},
			want:   []int64{draftBroadcast.ID, draft.ID, broadcast.ID, news.ID, engineering.ID},
		},
		{
			name:   "published only",
			filter: domain.PostFilter{PublishedOnly: true},
			want:   []int64{broadcast.ID, news.ID, engineering.ID},
		},
		{
			name:   "published in category",
			filter: domain.PostFilter{PublishedOnly: true, Category: &engineeringCategory},
			want:   []int64{broadcast.ID, engineering.ID},
		},
		{
			name:   "broadcast any status",
			filter: domain.PostFilter{BroadcastOnly: true},
			want:   []int64{draftBroadcast.ID, broadcast.ID},
		},
		{
			name:   "published broadcast",
			filter: domain.PostFilter{PublishedOnly: true, BroadcastOnly: true},
			want:   []int64{broadcast.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.FindPosts(ctx, tt.filter, domain.NewBlogPostsPageRequest(0))
			if err != nil {
				t.Fatalf("FindPosts failed: %v", err)
			}
			if got := ids(posts); !equalIDs(got, tt.want) {
				t.Errorf("FindPosts ids = %v, want %v", got, tt.want)
			}

			count, err := repo.CountPosts(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountPosts failed: %v", err)
			}
			if count != int64(len(tt.want)) {
				t.Errorf("CountPosts = %d, want %d", count, len(tt.want))
			}
		})
	}
}

func TestPostRepository_FindPosts_Pagination(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var posts []*domain.Post
	for i := 1; i <= 5; i++ {
		posts = append(posts, posttest.Post().CreatedAt(base.Add(time.Duration(i)*time.Hour)).Build())
	}
	if err := repo.SavePosts(ctx, posts); err != nil {
		t.Fatalf("SavePosts failed: %v", err)
	}

	tests := []struct {
		page int
		want []int64
	}{
		{0, []int64{posts[4].ID, posts[3].ID}},
		{1, []int64{posts[2].ID, posts[1].ID}},
		{2, []int64{posts[0].ID}},
		{3, []int64{}},
	}

	for _, tt := range tests {
		got, err := repo.FindPosts(ctx, domain.PostFilter{}, domain.NewPageRequest(tt.page, 2))
		if err != nil {
			t.Fatalf("FindPosts page %d failed: %v", tt.page, err)
		}
		if !equalIDs(ids(got), tt.want) {
			t.Errorf("page %d ids = %v, want %v", tt.page, ids(got), tt.want)
		}
	}
}

func TestPostRepository_FindPosts_EmptyResult(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	posts, err := repo.FindPosts(context.Background(), domain.PostFilter{PublishedOnly: true}, domain.NewBlogPostsPageRequest(0))
	if err != nil {
		t.Fatalf("FindPosts failed: %v", err)
	}

	if posts == nil {
		t.Error("FindPosts should return empty slice, not nil")
	}
	if len(posts) != 0 {
		t.Errorf("FindPosts returned %d posts, want 0", len(posts))
	}
}

func TestPostRepository_DeletePost(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post := posttest.Post().Build()
	savePosts(t, repo, post)

	if err := repo.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	if _, err := repo.FindPost(ctx, post.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("FindPost after delete error = %v, want ErrPostNotFound", err)
	}

	if err := repo.DeletePost(ctx, post.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("second DeletePost error = %v, want ErrPostNotFound", err)
	}
}
