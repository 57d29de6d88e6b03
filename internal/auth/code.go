package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/user/kritika/internal/model"
	"golang.org/x/crypto/hkdf"
)

// CodeService 注册确认码服务。
// 确认码由服务端密钥和用户当前状态（ID、用户名、邮箱、盐值）派生，不单独落库。
// 盐值在每次重新申请时轮换，旧确认码随之失效，因此消费是隐式的。
// 注意：修改用户名或邮箱同样会使未消费的确认码失效。
type CodeService struct {
	secret []byte
}

// NewCodeService 创建确认码服务
func NewCodeService(secret string) *CodeService {
	return &CodeService{secret: []byte(secret)}
}

// NewSalt 生成新的确认码盐值
func (s *CodeService) NewSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成盐值失败: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Derive 由用户当前状态派生确认码
func (s *CodeService) Derive(u *model.User) (string, error) {
	info := fmt.Sprintf("%d:%s:%s", u.ID, u.Username, u.Email)
	r := hkdf.New(sha256.New, s.secret, []byte(u.ConfirmationSalt), []byte(info))

	buf := make([]byte, 6)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("派生确认码失败: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Verify 校验确认码，恒定时间比较
func (s *CodeService) Verify(u *model.User, code string) bool {
	want, err := s.Derive(u)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1
}
