package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewApi(router *gin.Engine, posts *PostHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", posts.GetPosts)
		postsV1.GET("/broadcasts", posts.GetBroadcasts)
		postsV1.GET("/category/:category", posts.GetCategoryPosts)
		postsV1.GET("/:postId", posts.GetPost)
	}

	adminV1 := router.Group("admin/v1")
	{
		adminV1.GET("/posts", posts.GetAllPosts)
		adminV1.GET("/posts/:postId", posts.GetAnyPost)
	}
}
