package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/utils"
)

// SignupRequest 注册申请入参
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// TokenRequest 令牌兑换入参
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// Signup 申请注册，确认码通过邮件下发
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	user, err := h.Auth.Signup(req.Username, req.Email)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	// 与请求体一致的回显，不返回确认码
	utils.Success(c, gin.H{
		"username": user.Username,
		"email":    user.Email,
	})
}

// Token 用确认码兑换会话令牌
func (h *Handler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	token, err := h.Auth.IssueToken(req.Username, req.ConfirmationCode)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, gin.H{"token": token})
}
