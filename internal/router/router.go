package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/handler"
	"github.com/user/kritika/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler, authmw *middleware.Authenticator) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(authmw.Resolve())

	// ==================== 认证 ====================
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/token", h.Token)
	}

	// ==================== 用户目录（需要登录）====================
	// 保留用户名 me 指向当前用户，因此注册时禁止使用
	users := v1.Group("/users")
	users.Use(authmw.RequireAuth())
	{
		users.GET("", h.UserList)
		users.POST("", h.UserCreate)
		users.GET("/:username", h.UserDetail)
		users.PATCH("/:username", h.UserPatch)
		users.DELETE("/:username", h.UserDelete)
	}

	// ==================== 分类与体裁 ====================
	categories := v1.Group("/categories")
	{
		categories.GET("", h.CategoryList)
		categories.POST("", h.CategoryCreate)
		categories.DELETE("/:slug", h.CategoryDelete)
	}

	genres := v1.Group("/genres")
	{
		genres.GET("", h.GenreList)
		genres.POST("", h.GenreCreate)
		genres.DELETE("/:slug", h.GenreDelete)
	}

	// ==================== 作品、评论与回复 ====================
	titles := v1.Group("/titles")
	{
		titles.GET("", h.TitleList)
		titles.POST("", h.TitleCreate)
		titles.GET("/:title_id", h.TitleDetail)
		titles.PATCH("/:title_id", h.TitlePatch)
		titles.DELETE("/:title_id", h.TitleDelete)

		titles.GET("/:title_id/reviews", h.ReviewList)
		titles.POST("/:title_id/reviews", h.ReviewCreate)
		titles.GET("/:title_id/reviews/:review_id", h.ReviewDetail)
		titles.PATCH("/:title_id/reviews/:review_id", h.ReviewPatch)
		titles.DELETE("/:title_id/reviews/:review_id", h.ReviewDelete)

		titles.GET("/:title_id/reviews/:review_id/comments", h.CommentList)
		titles.POST("/:title_id/reviews/:review_id/comments", h.CommentCreate)
		titles.GET("/:title_id/reviews/:review_id/comments/:comment_id", h.CommentDetail)
		titles.PATCH("/:title_id/reviews/:review_id/comments/:comment_id", h.CommentPatch)
		titles.DELETE("/:title_id/reviews/:review_id/comments/:comment_id", h.CommentDelete)
	}
}
