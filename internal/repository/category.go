package repository

import (
	"errors"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List 按名称子串搜索分类列表
func (r *CategoryRepository) List(search string, limit, offset int) ([]*model.Category, int64, error) {
	q := r.db.Model(&model.Category{})
	if search != "" {
		q = q.Where("lower(name) LIKE lower(?)", "%"+search+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var categories []*model.Category
	err := q.Order("slug ASC").Limit(limit).Offset(offset).Find(&categories).Error
	return categories, count, err
}

// FindBySlug 根据 slug 查找分类
func (r *CategoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// Create 创建分类，slug 冲突返回 Conflict
func (r *CategoryRepository) Create(category *model.Category) error {
	err := r.db.Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.E(apperr.ErrConflict, "分类 slug 已存在")
	}
	return err
}

// DeleteBySlug 根据 slug 删除分类
func (r *CategoryRepository) DeleteBySlug(slug string) error {
	result := r.db.Where("slug = ?", slug).Delete(&model.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.ErrNotFound, "分类不存在")
	}
	return nil
}
