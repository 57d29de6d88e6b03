package service

import (
	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/repository"
)

// CommentService 评论回复编排
type CommentService struct {
	reviews  *ReviewService
	comments *repository.CommentRepository
	policy   *auth.Policy
}

// NewCommentService 创建回复服务
func NewCommentService(reviews *ReviewService, comments *repository.CommentRepository, policy *auth.Policy) *CommentService {
	return &CommentService{reviews: reviews, comments: comments, policy: policy}
}

// AddComment 在评论下创建回复
func (s *CommentService) AddComment(actor auth.Actor, titleID, reviewID uint, text string) (*model.Comment, error) {
	review, err := s.reviews.GetReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, auth.OpCreate, auth.Resource{Kind: auth.KindComment}); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ReviewID: review.ID,
		AuthorID: actor.ID,
		Text:     text,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	return s.comments.FindByID(review.ID, comment.ID)
}

// UpdateComment 更新回复文本
func (s *CommentService) UpdateComment(actor auth.Actor, titleID, reviewID, commentID uint, text string) (*model.Comment, error) {
	comment, err := s.GetComment(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, auth.OpUpdate, auth.Resource{Kind: auth.KindComment, OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := s.comments.Save(comment); err != nil {
		return nil, err
	}
	return s.comments.FindByID(reviewID, commentID)
}

// DeleteComment 删除回复
func (s *CommentService) DeleteComment(actor auth.Actor, titleID, reviewID, commentID uint) error {
	comment, err := s.GetComment(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(actor, auth.OpDelete, auth.Resource{Kind: auth.KindComment, OwnerID: comment.AuthorID}); err != nil {
		return err
	}
	return s.comments.Delete(comment)
}

// GetComment 查找评论下的单条回复
func (s *CommentService) GetComment(titleID, reviewID, commentID uint) (*model.Comment, error) {
	if _, err := s.reviews.GetReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.E(apperr.ErrNotFound, "回复不存在")
	}
	return comment, nil
}

// ListComments 查询评论下的回复列表
func (s *CommentService) ListComments(titleID, reviewID uint, limit, offset int) ([]*model.Comment, int64, error) {
	if _, err := s.reviews.GetReview(titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(reviewID, limit, offset)
}
