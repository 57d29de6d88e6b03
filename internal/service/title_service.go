package service

import (
	"strconv"
	"time"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/repository"
	"golang.org/x/sync/singleflight"
)

// TitleService 作品编排。并发的同一作品详情查询会被合并成一次数据库访问
type TitleService struct {
	titles     *repository.TitleRepository
	categories *repository.CategoryRepository
	genres     *repository.GenreRepository
	group      singleflight.Group
}

// NewTitleService 创建作品服务
func NewTitleService(titles *repository.TitleRepository, categories *repository.CategoryRepository, genres *repository.GenreRepository) *TitleService {
	return &TitleService{titles: titles, categories: categories, genres: genres}
}

// TitleInput 作品创建/更新入参，slug 引用分类与体裁
type TitleInput struct {
	Name        string
	Year        int
	Description string
	Category    string
	Genres      []string
}

// List 按条件查询作品列表
func (s *TitleService) List(f repository.TitleFilter, limit, offset int) ([]*model.Title, int64, error) {
	return s.titles.List(f, limit, offset)
}

// Get 查找作品详情
func (s *TitleService) Get(id uint) (*model.Title, error) {
	v, err, _ := s.group.Do(strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		return s.titles.FindByID(id)
	})
	if err != nil {
		return nil, err
	}
	title, _ := v.(*model.Title)
	if title == nil {
		return nil, apperr.E(apperr.ErrNotFound, "作品不存在")
	}
	return title, nil
}

// Create 创建作品
func (s *TitleService) Create(input TitleInput) (*model.Title, error) {
	category, genres, err := s.resolveRefs(input)
	if err != nil {
		return nil, err
	}
	if err := validateYear(input.Year); err != nil {
		return nil, err
	}

	title := &model.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CategoryID:  category.ID,
		Genres:      genres,
	}
	if err := s.titles.Create(title); err != nil {
		return nil, err
	}
	return s.titles.FindByID(title.ID)
}

// Update 更新作品，nil 字段不修改
func (s *TitleService) Update(id uint, name, description *string, year *int, categorySlug *string, genreSlugs []string) (*model.Title, error) {
	title, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		title.Name = *name
	}
	if description != nil {
		title.Description = *description
	}
	if year != nil {
		if err := validateYear(*year); err != nil {
			return nil, err
		}
		title.Year = *year
	}
	if categorySlug != nil {
		category, err := s.categories.FindBySlug(*categorySlug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.E(apperr.ErrInvalidInput, "未知的分类 slug")
		}
		title.CategoryID = category.ID
	}

	if err := s.titles.Save(title); err != nil {
		return nil, err
	}
	if genreSlugs != nil {
		genres, err := s.genres.FindBySlugs(genreSlugs)
		if err != nil {
			return nil, err
		}
		if err := s.titles.ReplaceGenres(title, genres); err != nil {
			return nil, err
		}
	}
	return s.titles.FindByID(id)
}

// Delete 删除作品，级联删除评论与回复
func (s *TitleService) Delete(id uint) error {
	title, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.titles.Delete(title)
}

func (s *TitleService) resolveRefs(input TitleInput) (*model.Category, []model.Genre, error) {
	if input.Category == "" {
		return nil, nil, apperr.E(apperr.ErrInvalidInput, "分类不能为空")
	}
	category, err := s.categories.FindBySlug(input.Category)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, apperr.E(apperr.ErrInvalidInput, "未知的分类 slug")
	}
	genres, err := s.genres.FindBySlugs(input.Genres)
	if err != nil {
		return nil, nil, err
	}
	return category, genres, nil
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return apperr.E(apperr.ErrInvalidInput, "年份不能超过当前年份")
	}
	return nil
}
