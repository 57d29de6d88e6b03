package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/config"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/notify"
	"github.com/user/kritika/internal/repository"
	"github.com/user/kritika/internal/service"
	"go.uber.org/zap"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Config   *config.Config
	Policy   *auth.Policy
	Auth     *service.AuthService
	Users    *service.UserService
	Titles   *service.TitleService
	Reviews  *service.ReviewService
	Comments *service.CommentService
	Logger   *zap.Logger
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, policy *auth.Policy, notifier notify.Notifier, logger *zap.Logger) *Handler {
	codes := auth.NewCodeService(cfg.AppSecret)
	tokens := auth.NewTokenService(cfg.AppSecret, cfg.JWTExpiry)

	authSvc := service.NewAuthService(repos.User, codes, tokens, notifier, logger, cfg.CodeResendInterval)
	userSvc := service.NewUserService(repos.User, codes)
	titleSvc := service.NewTitleService(repos.Title, repos.Category, repos.Genre)
	reviewSvc := service.NewReviewService(repos.Title, repos.Review, policy)
	commentSvc := service.NewCommentService(reviewSvc, repos.Comment, policy)

	return &Handler{
		Repos:    repos,
		Config:   cfg,
		Policy:   policy,
		Auth:     authSvc,
		Users:    userSvc,
		Titles:   titleSvc,
		Reviews:  reviewSvc,
		Comments: commentSvc,
		Logger:   logger,
	}
}

// reviewPayload 评论响应体，作者以用户名呈现
func reviewPayload(r *model.Review) gin.H {
	author := ""
	if r.Author != nil {
		author = r.Author.Username
	}
	return gin.H{
		"id":       r.ID,
		"text":     r.Text,
		"author":   author,
		"score":    r.Score,
		"pub_date": r.PubDate,
	}
}

// commentPayload 回复响应体
func commentPayload(cm *model.Comment) gin.H {
	author := ""
	if cm.Author != nil {
		author = cm.Author.Username
	}
	return gin.H{
		"id":       cm.ID,
		"text":     cm.Text,
		"author":   author,
		"pub_date": cm.PubDate,
	}
}

func reviewPayloads(reviews []*model.Review) []gin.H {
	out := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewPayload(r))
	}
	return out
}

func commentPayloads(comments []*model.Comment) []gin.H {
	out := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentPayload(cm))
	}
	return out
}
