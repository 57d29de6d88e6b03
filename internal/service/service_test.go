package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开一个内存 sqlite 库，每个测试独立命名互不串库。
// TranslateError 和生产配置保持一致，唯一约束冲突同样翻译成 gorm.ErrDuplicatedKey
func newTestDB(t *testing.T) *repository.Repositories {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	// 内存库随最后一个连接消失，限制为单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return repository.NewRepositories(db)
}

func seedUser(t *testing.T, repos *repository.Repositories, username string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Username:         username,
		Email:            username + "@example.com",
		Role:             role,
		ConfirmationSalt: "00112233445566778899aabbccddeeff",
	}
	if err := repos.User.Create(user); err != nil {
		t.Fatalf("创建用户 %s 失败: %v", username, err)
	}
	return user
}

func seedCategory(t *testing.T, repos *repository.Repositories, name, slug string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Slug: slug}
	if err := repos.Category.Create(category); err != nil {
		t.Fatalf("创建分类 %s 失败: %v", slug, err)
	}
	return category
}

func seedGenre(t *testing.T, repos *repository.Repositories, name, slug string) *model.Genre {
	t.Helper()
	genre := &model.Genre{Name: name, Slug: slug}
	if err := repos.Genre.Create(genre); err != nil {
		t.Fatalf("创建体裁 %s 失败: %v", slug, err)
	}
	return genre
}

func seedTitle(t *testing.T, repos *repository.Repositories, name string) *model.Title {
	t.Helper()
	category, err := repos.Category.FindBySlug("movie")
	if err != nil {
		t.Fatalf("查询分类失败: %v", err)
	}
	if category == nil {
		category = seedCategory(t, repos, "电影", "movie")
	}
	title := &model.Title{Name: name, Year: 2020, CategoryID: category.ID}
	if err := repos.Title.Create(title); err != nil {
		t.Fatalf("创建作品 %s 失败: %v", name, err)
	}
	return title
}

func asActor(user *model.User) auth.Actor {
	return auth.ActorFromUser(user)
}

// captureNotifier 把确认码捕获到内存，供测试读取
type captureNotifier struct {
	codes map[string]string
	sends map[string]int
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{
		codes: make(map[string]string),
		sends: make(map[string]int),
	}
}

func (n *captureNotifier) SendCode(user *model.User, code string) error {
	n.codes[user.Username] = code
	n.sends[user.Username]++
	return nil
}
