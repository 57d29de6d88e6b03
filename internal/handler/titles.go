package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/middleware"
	"github.com/user/kritika/internal/repository"
	"github.com/user/kritika/internal/service"
	"github.com/user/kritika/internal/utils"
)

// TitleCreateRequest 作品创建入参，分类和体裁用 slug 引用
type TitleCreateRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description" binding:"max=256"`
	Category    string   `json:"category" binding:"required"`
	Genre       []string `json:"genre"`
}

// TitlePatchRequest 作品更新入参，nil 字段不修改
type TitlePatchRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

// TitleList 作品列表，支持 category/genre/name/year 过滤
func (h *Handler) TitleList(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
		Year:         year,
	}

	limit, offset := utils.Pagination(c)
	titles, count, err := h.Titles.List(filter, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Paged(c, count, titles)
}

// TitleCreate 创建作品（仅管理员）
func (h *Handler) TitleCreate(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpCreate, auth.Resource{Kind: auth.KindTitle}); err != nil {
		utils.FromError(c, err)
		return
	}

	var req TitleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	title, err := h.Titles.Create(service.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, title)
}

// TitleDetail 作品详情
func (h *Handler) TitleDetail(c *gin.Context) {
	id, err := titleID(c)
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return
	}

	title, err := h.Titles.Get(id)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, title)
}

// TitlePatch 更新作品（仅管理员）
func (h *Handler) TitlePatch(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpUpdate, auth.Resource{Kind: auth.KindTitle}); err != nil {
		utils.FromError(c, err)
		return
	}

	id, err := titleID(c)
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return
	}

	var req TitlePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	title, err := h.Titles.Update(id, req.Name, req.Description, req.Year, req.Category, req.Genre)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, title)
}

// TitleDelete 删除作品（仅管理员），级联删除评论与回复
func (h *Handler) TitleDelete(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpDelete, auth.Resource{Kind: auth.KindTitle}); err != nil {
		utils.FromError(c, err)
		return
	}

	id, err := titleID(c)
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return
	}

	if err := h.Titles.Delete(id); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.NoContent(c)
}

func titleID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("title_id"), 10, 32)
	return uint(id), err
}
