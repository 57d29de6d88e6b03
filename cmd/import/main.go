package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/kritika/internal/config"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CSV 数据导入工具。按依赖顺序导入分类、体裁、作品、关联、用户、评论、回复，
// 重复执行是幂等的（按主键 DO NOTHING）。
func main() {
	dir := flag.String("dir", "static/data", "CSV 数据目录")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	imp := &importer{db: db, dir: *dir, logger: logger}

	// 顺序固定：后面的表依赖前面的外键
	steps := []struct {
		file string
		fn   func(record map[string]string) error
	}{
		{"category.csv", imp.category},
		{"genre.csv", imp.genre},
		{"titles.csv", imp.title},
		{"genre_title.csv", imp.genreTitle},
		{"users.csv", imp.user},
		{"review.csv", imp.review},
		{"comments.csv", imp.comment},
	}

	for _, step := range steps {
		if err := imp.run(step.file, step.fn); err != nil {
			logger.Fatal("导入失败", zap.String("file", step.file), zap.Error(err))
		}
	}

	logger.Info("导入完成")
}

type importer struct {
	db     *gorm.DB
	dir    string
	logger *zap.Logger
}

// run 逐行读取 CSV，按表头构造字段映射后交给对应的导入函数
func (imp *importer) run(name string, fn func(record map[string]string) error) error {
	f, err := os.Open(filepath.Join(imp.dir, name))
	if err != nil {
		return fmt.Errorf("打开 %s 失败: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("读取 %s 表头失败: %w", name, err)
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("读取 %s 失败: %w", name, err)
		}

		record := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		if err := fn(record); err != nil {
			return err
		}
		count++
	}

	imp.logger.Info("导入文件完成", zap.String("file", name), zap.Int("rows", count))
	return nil
}

func (imp *importer) category(record map[string]string) error {
	return imp.insert(&model.Category{
		ID:   atoui(record["id"]),
		Name: record["name"],
		Slug: record["slug"],
	})
}

func (imp *importer) genre(record map[string]string) error {
	return imp.insert(&model.Genre{
		ID:   atoui(record["id"]),
		Name: record["name"],
		Slug: record["slug"],
	})
}

func (imp *importer) title(record map[string]string) error {
	year, _ := strconv.Atoi(record["year"])
	return imp.insert(&model.Title{
		ID:         atoui(record["id"]),
		Name:       record["name"],
		Year:       year,
		CategoryID: atoui(record["category"]),
	})
}

func (imp *importer) genreTitle(record map[string]string) error {
	return imp.db.Clauses(clause.OnConflict{DoNothing: true}).
		Table("genre_titles").
		Create(map[string]interface{}{
			"title_id": atoui(record["title_id"]),
			"genre_id": atoui(record["genre_id"]),
		}).Error
}

func (imp *importer) user(record map[string]string) error {
	role := model.Role(record["role"])
	if !role.Valid() {
		role = model.RoleUser
	}
	return imp.insert(&model.User{
		ID:        atoui(record["id"]),
		Username:  record["username"],
		Email:     record["email"],
		Role:      role,
		Bio:       record["bio"],
		FirstName: record["first_name"],
		LastName:  record["last_name"],
	})
}

func (imp *importer) review(record map[string]string) error {
	score, _ := strconv.Atoi(record["score"])
	if err := imp.insert(&model.Review{
		ID:       atoui(record["id"]),
		TitleID:  atoui(record["title_id"]),
		AuthorID: atoui(record["author"]),
		Text:     record["text"],
		Score:    score,
		PubDate:  parseDate(record["pub_date"]),
	}); err != nil {
		return err
	}
	// 导入评论后重算受影响作品的评分，保持聚合不变式
	return imp.db.Exec(`
		UPDATE titles SET rating = (SELECT AVG(score) FROM reviews WHERE reviews.title_id = titles.id)
		WHERE titles.id = ?
	`, atoui(record["title_id"])).Error
}

func (imp *importer) comment(record map[string]string) error {
	return imp.insert(&model.Comment{
		ID:       atoui(record["id"]),
		ReviewID: atoui(record["review_id"]),
		AuthorID: atoui(record["author"]),
		Text:     record["text"],
		PubDate:  parseDate(record["pub_date"]),
	})
}

func (imp *importer) insert(value interface{}) error {
	return imp.db.Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
}

func atoui(s string) uint {
	n, _ := strconv.ParseUint(s, 10, 32)
	return uint(n)
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
