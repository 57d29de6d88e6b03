package repository

import (
	"errors"

	"github.com/user/kritika/internal/model"
	"gorm.io/gorm"
)

type TitleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// TitleFilter 作品列表过滤条件
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

// List 按条件查询作品列表
func (r *TitleRepository) List(f TitleFilter, limit, offset int) ([]*model.Title, int64, error) {
	q := r.db.Model(&model.Title{})
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Joins("JOIN genre_titles ON genre_titles.title_id = titles.id").
			Joins("JOIN genres ON genres.id = genre_titles.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}
	if f.Name != "" {
		q = q.Where("lower(titles.name) LIKE lower(?)", "%"+f.Name+"%")
	}
	if f.Year != 0 {
		q = q.Where("titles.year = ?", f.Year)
	}

	// 统计走独立会话，避免 Distinct 污染后面的查询语句
	var count int64
	if err := q.Session(&gorm.Session{}).Distinct("titles.id").Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var titles []*model.Title
	err := q.Distinct("titles.*").
		Preload("Category").
		Preload("Genres").
		Order("titles.name ASC, titles.year DESC").
		Limit(limit).
		Offset(offset).
		Find(&titles).Error
	return titles, count, err
}

// FindByID 根据 ID 查找作品
func (r *TitleRepository) FindByID(id uint) (*model.Title, error) {
	var title model.Title
	err := r.db.Preload("Category").Preload("Genres").First(&title, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &title, nil
}

// Create 创建作品（连同体裁关联）
func (r *TitleRepository) Create(title *model.Title) error {
	return r.db.Create(title).Error
}

// Save 保存作品基本字段
func (r *TitleRepository) Save(title *model.Title) error {
	return r.db.Omit("Genres", "Category").Save(title).Error
}

// ReplaceGenres 替换作品的体裁关联
func (r *TitleRepository) ReplaceGenres(title *model.Title, genres []model.Genre) error {
	return r.db.Model(title).Association("Genres").Replace(genres)
}

// Delete 删除作品，级联删除其下的评论与回复
func (r *TitleRepository) Delete(title *model.Title) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id IN (?)",
			tx.Model(&model.Review{}).Select("id").Where("title_id = ?", title.ID),
		).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Model(title).Association("Genres").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Title{}, title.ID).Error
	})
}
