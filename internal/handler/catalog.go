package handler

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/middleware"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/utils"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// SlugRefRequest 分类/体裁创建入参
type SlugRefRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// CategoryList 分类列表，支持 search= 名称子串搜索
func (h *Handler) CategoryList(c *gin.Context) {
	limit, offset := utils.Pagination(c)
	categories, count, err := h.Repos.Category.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Paged(c, count, categories)
}

// CategoryCreate 创建分类（仅管理员）
func (h *Handler) CategoryCreate(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpCreate, auth.Resource{Kind: auth.KindCategory}); err != nil {
		utils.FromError(c, err)
		return
	}

	var req SlugRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}
	if !slugPattern.MatchString(req.Slug) {
		utils.BadRequest(c, "slug 含有非法字符")
		return
	}

	category := &model.Category{Name: req.Name, Slug: req.Slug}
	if err := h.Repos.Category.Create(category); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, category)
}

// CategoryDelete 删除分类（仅管理员）
func (h *Handler) CategoryDelete(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpDelete, auth.Resource{Kind: auth.KindCategory}); err != nil {
		utils.FromError(c, err)
		return
	}

	if err := h.Repos.Category.DeleteBySlug(c.Param("slug")); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.NoContent(c)
}

// GenreList 体裁列表，支持 search= 名称子串搜索
func (h *Handler) GenreList(c *gin.Context) {
	limit, offset := utils.Pagination(c)
	genres, count, err := h.Repos.Genre.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Paged(c, count, genres)
}

// GenreCreate 创建体裁（仅管理员）
func (h *Handler) GenreCreate(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpCreate, auth.Resource{Kind: auth.KindGenre}); err != nil {
		utils.FromError(c, err)
		return
	}

	var req SlugRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}
	if !slugPattern.MatchString(req.Slug) {
		utils.BadRequest(c, "slug 含有非法字符")
		return
	}

	genre := &model.Genre{Name: req.Name, Slug: req.Slug}
	if err := h.Repos.Genre.Create(genre); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, genre)
}

// GenreDelete 删除体裁（仅管理员）
func (h *Handler) GenreDelete(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpDelete, auth.Resource{Kind: auth.KindGenre}); err != nil {
		utils.FromError(c, err)
		return
	}

	if err := h.Repos.Genre.DeleteBySlug(c.Param("slug")); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.NoContent(c)
}
