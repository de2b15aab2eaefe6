package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dfryer1193/siteblog/api"
	"github.com/dfryer1193/siteblog/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PostQueries is the read side of the post service used by the HTTP layer
type PostQueries interface {
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	GetPublishedPost(ctx context.Context, id int64) (*domain.Post, error)
	MostRecentPosts(ctx context.Context, page domain.PageRequest) ([]*domain.Post, error)
	MostRecentPostsForCategory(ctx context.Context, category domain.PostCategory, page domain.PageRequest) ([]*domain.Post, error)
	MostRecentBroadcastPosts(ctx context.Context, page domain.PageRequest) ([]*domain.Post, error)
	AllPosts(ctx context.Context, page domain.PageRequest) ([]*domain.Post, error)
	PaginationInfo(ctx context.Context, page domain.PageRequest) (domain.PaginationInfo, error)
	PublishedPaginationInfo(ctx context.Context, page domain.PageRequest) (domain.PaginationInfo, error)
	CategoryPaginationInfo(ctx context.Context, category domain.PostCategory, page domain.PageRequest) (domain.PaginationInfo, error)
	BroadcastPaginationInfo(ctx context.Context, page domain.PageRequest) (domain.PaginationInfo, error)
}

type PostHandler struct {
	posts PostQueries
}

func NewPostHandler(posts PostQueries) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	page := pageRequest(c)
	h.listing(c,
		func(ctx context.Context) ([]*domain.Post, error) { return h.posts.MostRecentPosts(ctx, page) },
		func(ctx context.Context) (domain.PaginationInfo, error) { return h.posts.PublishedPaginationInfo(ctx, page) },
	)
}

func (h *PostHandler) GetCategoryPosts(c *gin.Context) {
	category, err := domain.ParsePostCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := pageRequest(c)
	h.listing(c,
		func(ctx context.Context) ([]*domain.Post, error) {
			return h.posts.MostRecentPostsForCategory(ctx, category, page)
		},
		func(ctx context.Context) (domain.PaginationInfo, error) {
			return h.posts.CategoryPaginationInfo(ctx, category, page)
		},
	)
}

func (h *PostHandler) GetBroadcasts(c *gin.Context) {
	page := pageRequest(c)
	h.listing(c,
		func(ctx context.Context) ([]*domain.Post, error) { return h.posts.MostRecentBroadcastPosts(ctx, page) },
		func(ctx context.Context) (domain.PaginationInfo, error) { return h.posts.BroadcastPaginationInfo(ctx, page) },
	)
}

func (h *PostHandler) GetAllPosts(c *gin.Context) {
	page := pageRequest(c)
	h.listing(c,
		func(ctx context.Context) ([]*domain.Post, error) { return h.posts.AllPosts(ctx, page) },
		func(ctx context.Context) (domain.PaginationInfo, error) { return h.posts.PaginationInfo(ctx, page) },
	)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	h.single(c, h.posts.GetPublishedPost)
}

func (h *PostHandler) GetAnyPost(c *gin.Context) {
	h.single(c, h.posts.GetPost)
}

func (h *PostHandler) single(c *gin.Context, find func(context.Context, int64) (*domain.Post, error)) {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	post, err := find(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.NewPost(post))
}

func (h *PostHandler) listing(
	c *gin.Context,
	list func(context.Context) ([]*domain.Post, error),
	paginate func(context.Context) (domain.PaginationInfo, error),
) {
	ctx := c.Request.Context()

	posts, err := list(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	info, err := paginate(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.NewPostPage(posts, info))
}

// pageRequest reads the 1-based ?page= parameter; anything unparsable means the first page
func pageRequest(c *gin.Context) domain.PageRequest {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return domain.NewBlogPostsPageRequest(page - 1)
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrPostNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Failed to serve posts")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
