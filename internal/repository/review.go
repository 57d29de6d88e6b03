package repository

import (
	"database/sql"
	"errors"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 创建评论并在同一事务中重算作品评分。
// (title_id, author_id) 唯一索引兜底并发重复提交，冲突返回 Conflict。
func (r *ReviewRepository) Create(review *model.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.E(apperr.ErrConflict, "你已经评论过该作品")
			}
			return err
		}
		return recalcRating(tx, review.TitleID)
	})
}

// Save 更新评论并重算评分
func (r *ReviewRepository) Save(review *model.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Title").Save(review).Error; err != nil {
			return err
		}
		return recalcRating(tx, review.TitleID)
	})
}

// Delete 删除评论（连同其下回复）并重算评分
func (r *ReviewRepository) Delete(review *model.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Review{}, review.ID).Error; err != nil {
			return err
		}
		return recalcRating(tx, review.TitleID)
	})
}

// FindByID 在指定作品范围内查找评论
func (r *ReviewRepository) FindByID(titleID, id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Author").
		Where("title_id = ?", titleID).
		First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// ListByTitle 查询作品下的评论列表
func (r *ReviewRepository) ListByTitle(titleID uint, limit, offset int) ([]*model.Review, int64, error) {
	q := r.db.Model(&model.Review{}).Where("title_id = ?", titleID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := q.Preload("Author").
		Order("pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, count, err
}

// CurrentRating 读取作品当前的物化评分，无评论时为 nil
func (r *ReviewRepository) CurrentRating(titleID uint) (*float64, error) {
	var title model.Title
	if err := r.db.Select("id", "rating").First(&title, titleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.E(apperr.ErrNotFound, "作品不存在")
		}
		return nil, err
	}
	return title.Rating, nil
}

// recalcRating 重算作品平均分并写回，没有评论时置空。
// 必须与触发它的评论写操作处于同一事务，保证读者不会看到过期评分。
func recalcRating(tx *gorm.DB, titleID uint) error {
	var avg sql.NullFloat64
	err := tx.Model(&model.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	var rating *float64
	if avg.Valid {
		rating = &avg.Float64
	}
	return tx.Model(&model.Title{}).Where("id = ?", titleID).Update("rating", rating).Error
}
