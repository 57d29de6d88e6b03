package repository

import (
	"errors"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/model"
	"gorm.io/gorm"
)

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// List 按名称子串搜索体裁列表
func (r *GenreRepository) List(search string, limit, offset int) ([]*model.Genre, int64, error) {
	q := r.db.Model(&model.Genre{})
	if search != "" {
		q = q.Where("lower(name) LIKE lower(?)", "%"+search+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var genres []*model.Genre
	err := q.Order("slug ASC").Limit(limit).Offset(offset).Find(&genres).Error
	return genres, count, err
}

// FindBySlug 根据 slug 查找体裁
func (r *GenreRepository) FindBySlug(slug string) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.Where("slug = ?", slug).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &genre, nil
}

// FindBySlugs 批量查找体裁，任一 slug 不存在时返回 InvalidInput
func (r *GenreRepository) FindBySlugs(slugs []string) ([]model.Genre, error) {
	var genres []model.Genre
	if len(slugs) == 0 {
		return genres, nil
	}
	if err := r.db.Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, apperr.E(apperr.ErrInvalidInput, "存在未知的体裁 slug")
	}
	return genres, nil
}

// Create 创建体裁，slug 冲突返回 Conflict
func (r *GenreRepository) Create(genre *model.Genre) error {
	err := r.db.Create(genre).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.E(apperr.ErrConflict, "体裁 slug 已存在")
	}
	return err
}

// DeleteBySlug 根据 slug 删除体裁
func (r *GenreRepository) DeleteBySlug(slug string) error {
	result := r.db.Where("slug = ?", slug).Delete(&model.Genre{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.ErrNotFound, "体裁不存在")
	}
	return nil
}
