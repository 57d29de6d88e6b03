package repository

import (
	"errors"

	"github.com/user/kritika/internal/model"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建回复
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// Save 更新回复
func (r *CommentRepository) Save(comment *model.Comment) error {
	return r.db.Omit("Author", "Review").Save(comment).Error
}

// Delete 删除回复
func (r *CommentRepository) Delete(comment *model.Comment) error {
	return r.db.Delete(&model.Comment{}, comment.ID).Error
}

// FindByID 在指定评论范围内查找回复
func (r *CommentRepository) FindByID(reviewID, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("Author").
		Where("review_id = ?", reviewID).
		First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListByReview 查询评论下的回复列表
func (r *CommentRepository) ListByReview(reviewID uint, limit, offset int) ([]*model.Comment, int64, error) {
	q := r.db.Model(&model.Comment{}).Where("review_id = ?", reviewID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var comments []*model.Comment
	err := q.Preload("Author").
		Order("pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, count, err
}
