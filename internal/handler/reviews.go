package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/middleware"
	"github.com/user/kritika/internal/utils"
)

// ReviewCreateRequest 评论创建入参
type ReviewCreateRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

// ReviewPatchRequest 评论更新入参，nil 字段不修改
type ReviewPatchRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// ReviewList 作品下的评论列表
func (h *Handler) ReviewList(c *gin.Context) {
	id, err := titleID(c)
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return
	}

	limit, offset := utils.Pagination(c)
	reviews, count, err := h.Reviews.ListReviews(id, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Paged(c, count, reviewPayloads(reviews))
}

// ReviewCreate 创建评论，每个用户对同一作品只能有一条
func (h *Handler) ReviewCreate(c *gin.Context) {
	id, err := titleID(c)
	if err != nil {
		utils.BadRequest(c, "无效的作品 ID")
		return
	}

	var req ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	review, err := h.Reviews.AddReview(middleware.GetActor(c), id, req.Text, req.Score)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, reviewPayload(review))
}

// ReviewDetail 单条评论
func (h *Handler) ReviewDetail(c *gin.Context) {
	tid, rid, err := reviewIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的评论 ID")
		return
	}

	review, err := h.Reviews.GetReview(tid, rid)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, reviewPayload(review))
}

// ReviewPatch 更新评论（作者本人、版主或管理员）
func (h *Handler) ReviewPatch(c *gin.Context) {
	tid, rid, err := reviewIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的评论 ID")
		return
	}

	var req ReviewPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	review, err := h.Reviews.UpdateReview(middleware.GetActor(c), tid, rid, req.Text, req.Score)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, reviewPayload(review))
}

// ReviewDelete 删除评论（作者本人、版主或管理员）
func (h *Handler) ReviewDelete(c *gin.Context) {
	tid, rid, err := reviewIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的评论 ID")
		return
	}

	if err := h.Reviews.DeleteReview(middleware.GetActor(c), tid, rid); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.NoContent(c)
}

func reviewIDs(c *gin.Context) (titleID, reviewID uint, err error) {
	tid, err := strconv.ParseUint(c.Param("title_id"), 10, 32)
	if err != nil {
		return 0, 0, err
	}
	rid, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint(tid), uint(rid), nil
}
