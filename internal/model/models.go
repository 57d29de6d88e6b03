package model

import (
	"time"
)

// Role 用户角色（封闭枚举）
// 角色比较只允许出现在 auth.Policy 中，其他组件不得直接判断角色字符串
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid 判断是否为合法角色
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// User 用户模型
type User struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string `json:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName   string `json:"first_name" gorm:"size:150"`
	LastName    string `json:"last_name" gorm:"size:150"`
	Bio         string `json:"bio" gorm:"type:text"`
	Role        Role   `json:"role" gorm:"type:varchar(20);not null;default:user"`
	IsSuperuser bool   `json:"-" gorm:"not null;default:false"`
	// 确认码盐值，每次重新申请注册时轮换，旧确认码随之失效
	ConfirmationSalt string    `json:"-" gorm:"size:64"`
	CreatedAt        time.Time `json:"-"`
}

// Category 分类（管理员维护的引用数据）
type Category struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// Genre 体裁
type Genre struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// Title 作品模型
type Title struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Year        int       `json:"year" gorm:"not null"`
	Description string    `json:"description" gorm:"size:256"`
	CategoryID  uint      `json:"-" gorm:"not null"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre" gorm:"many2many:genre_titles;constraint:OnDelete:CASCADE"`
	// 派生评分：所有评论分数的算术平均值，写评论时同事务重算
	// 没有评论时为 null，绝不会是 0
	Rating *float64 `json:"rating"`
}

// Review 评论（每个用户对同一作品至多一条，由唯一索引兜底）
type Review struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	TitleID  uint      `json:"-" gorm:"not null;uniqueIndex:idx_reviews_title_author"`
	Title    *Title    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID uint      `json:"-" gorm:"not null;uniqueIndex:idx_reviews_title_author"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

// Comment 评论下的回复
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	ReviewID uint      `json:"-" gorm:"not null;index"`
	Review   *Review   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID uint      `json:"-" gorm:"not null"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

// 评分取值范围
const (
	MinScore = 1
	MaxScore = 10
)
