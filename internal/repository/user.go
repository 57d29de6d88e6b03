package repository

import (
	"errors"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Create 创建用户，唯一约束冲突返回 Conflict
func (r *UserRepository) Create(user *model.User) error {
	err := r.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.E(apperr.ErrConflict, "用户名或邮箱已被占用")
	}
	return err
}

// Save 保存用户全部字段
func (r *UserRepository) Save(user *model.User) error {
	err := r.db.Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.E(apperr.ErrConflict, "用户名或邮箱已被占用")
	}
	return err
}

// List 按用户名子串搜索用户列表
func (r *UserRepository) List(search string, limit, offset int) ([]*model.User, int64, error) {
	q := r.db.Model(&model.User{})
	if search != "" {
		q = q.Where("lower(username) LIKE lower(?)", "%"+search+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, count, err
}

// Delete 删除用户，连同其评论与回复，并重算受影响作品的评分
func (r *UserRepository) Delete(user *model.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var titleIDs []uint
		if err := tx.Model(&model.Review{}).
			Where("author_id = ?", user.ID).
			Distinct("title_id").
			Pluck("title_id", &titleIDs).Error; err != nil {
			return err
		}

		// 其评论下的回复
		if err := tx.Where("review_id IN (?)",
			tx.Model(&model.Review{}).Select("id").Where("author_id = ?", user.ID),
		).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		// 其本人发出的回复
		if err := tx.Where("author_id = ?", user.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.User{}, user.ID).Error; err != nil {
			return err
		}

		for _, titleID := range titleIDs {
			if err := recalcRating(tx, titleID); err != nil {
				return err
			}
		}
		return nil
	})
}
