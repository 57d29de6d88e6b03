package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/middleware"
	"github.com/user/kritika/internal/utils"
)

// CommentRequest 回复创建/更新入参
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentList 评论下的回复列表
func (h *Handler) CommentList(c *gin.Context) {
	tid, rid, err := reviewIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的评论 ID")
		return
	}

	limit, offset := utils.Pagination(c)
	comments, count, err := h.Comments.ListComments(tid, rid, limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Paged(c, count, commentPayloads(comments))
}

// CommentCreate 创建回复
func (h *Handler) CommentCreate(c *gin.Context) {
	tid, rid, err := reviewIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的评论 ID")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	comment, err := h.Comments.AddComment(middleware.GetActor(c), tid, rid, req.Text)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, commentPayload(comment))
}

// CommentDetail 单条回复
func (h *Handler) CommentDetail(c *gin.Context) {
	tid, rid, cid, err := commentIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的回复 ID")
		return
	}

	comment, err := h.Comments.GetComment(tid, rid, cid)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, commentPayload(comment))
}

// CommentPatch 更新回复（作者本人、版主或管理员）
func (h *Handler) CommentPatch(c *gin.Context) {
	tid, rid, cid, err := commentIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的回复 ID")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	comment, err := h.Comments.UpdateComment(middleware.GetActor(c), tid, rid, cid, req.Text)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, commentPayload(comment))
}

// CommentDelete 删除回复（作者本人、版主或管理员）
func (h *Handler) CommentDelete(c *gin.Context) {
	tid, rid, cid, err := commentIDs(c)
	if err != nil {
		utils.BadRequest(c, "无效的回复 ID")
		return
	}

	if err := h.Comments.DeleteComment(middleware.GetActor(c), tid, rid, cid); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.NoContent(c)
}

func commentIDs(c *gin.Context) (titleID, reviewID, commentID uint, err error) {
	tid, rid, err := reviewIDs(c)
	if err != nil {
		return 0, 0, 0, err
	}
	cid, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil {
		return 0, 0, 0, err
	}
	return tid, rid, uint(cid), nil
}
