package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/user/kritika/internal/apperr"
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254

	// 保留用户名，留给 /users/me 路由（大小写敏感）
	reservedUsername = "me"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	validate        = validator.New()
)

// ValidateUsername 校验用户名：非保留值、符合标识符模式、长度受限
func ValidateUsername(username string) error {
	if username == "" || len(username) > maxUsernameLen {
		return apperr.E(apperr.ErrInvalidInput, "用户名长度不合法")
	}
	if username == reservedUsername {
		return apperr.E(apperr.ErrInvalidInput, "用户名 me 是保留值")
	}
	if !usernamePattern.MatchString(username) {
		return apperr.E(apperr.ErrInvalidInput, "用户名含有非法字符")
	}
	return nil
}

// ValidateEmail 校验邮箱格式与长度
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return apperr.E(apperr.ErrInvalidInput, "邮箱格式不合法")
	}
	if len(email) > maxEmailLen {
		return apperr.E(apperr.ErrInvalidInput, "邮箱长度不合法")
	}
	return nil
}
