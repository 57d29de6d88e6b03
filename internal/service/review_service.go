package service

import (
	"fmt"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/repository"
)

// ReviewService 评论编排与评分聚合。
// 每次写操作先过策略判定，再和评分重算放进同一事务
type ReviewService struct {
	titles  *repository.TitleRepository
	reviews *repository.ReviewRepository
	policy  *auth.Policy
}

// NewReviewService 创建评论服务
func NewReviewService(titles *repository.TitleRepository, reviews *repository.ReviewRepository, policy *auth.Policy) *ReviewService {
	return &ReviewService{titles: titles, reviews: reviews, policy: policy}
}

// AddReview 创建评论。同一用户对同一作品的第二条评论返回 Conflict
func (s *ReviewService) AddReview(actor auth.Actor, titleID uint, text string, score int) (*model.Review, error) {
	if err := s.ensureTitle(titleID); err != nil {
		return nil, err
	}
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, auth.OpCreate, auth.Resource{Kind: auth.KindReview}); err != nil {
		return nil, err
	}

	review := &model.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}
	return s.reviews.FindByID(titleID, review.ID)
}

// UpdateReview 更新评论文本或分数，分数变动同事务重算评分
func (s *ReviewService) UpdateReview(actor auth.Actor, titleID, reviewID uint, text *string, score *int) (*model.Review, error) {
	review, err := s.GetReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, auth.OpUpdate, auth.Resource{Kind: auth.KindReview, OwnerID: review.AuthorID}); err != nil {
		return nil, err
	}

	if score != nil {
		if err := validateScore(*score); err != nil {
			return nil, err
		}
		review.Score = *score
	}
	if text != nil {
		review.Text = *text
	}

	if err := s.reviews.Save(review); err != nil {
		return nil, err
	}
	return s.reviews.FindByID(titleID, reviewID)
}

// DeleteReview 删除评论（连同回复），同事务重算评分
func (s *ReviewService) DeleteReview(actor auth.Actor, titleID, reviewID uint) error {
	review, err := s.GetReview(titleID, reviewID)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(actor, auth.OpDelete, auth.Resource{Kind: auth.KindReview, OwnerID: review.AuthorID}); err != nil {
		return err
	}
	return s.reviews.Delete(review)
}

// GetReview 查找作品下的单条评论
func (s *ReviewService) GetReview(titleID, reviewID uint) (*model.Review, error) {
	if err := s.ensureTitle(titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.FindByID(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, apperr.E(apperr.ErrNotFound, "评论不存在")
	}
	return review, nil
}

// ListReviews 查询作品下的评论列表
func (s *ReviewService) ListReviews(titleID uint, limit, offset int) ([]*model.Review, int64, error) {
	if err := s.ensureTitle(titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(titleID, limit, offset)
}

// Rating 读取作品当前评分，无评论时为 nil
func (s *ReviewService) Rating(titleID uint) (*float64, error) {
	return s.reviews.CurrentRating(titleID)
}

func (s *ReviewService) ensureTitle(titleID uint) error {
	title, err := s.titles.FindByID(titleID)
	if err != nil {
		return err
	}
	if title == nil {
		return apperr.E(apperr.ErrNotFound, "作品不存在")
	}
	return nil
}

func validateScore(score int) error {
	if score < model.MinScore || score > model.MaxScore {
		return apperr.E(apperr.ErrInvalidInput,
			fmt.Sprintf("分数必须在 %d 到 %d 之间", model.MinScore, model.MaxScore))
	}
	return nil
}
