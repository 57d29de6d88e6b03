package service

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/notify"
	"github.com/user/kritika/internal/repository"
	"go.uber.org/zap"
)

// AuthService 注册与令牌发放
type AuthService struct {
	users    *repository.UserRepository
	codes    *auth.CodeService
	tokens   *auth.TokenService
	notifier notify.Notifier
	logger   *zap.Logger
	// 限制同一用户重复申请确认码的频率
	resendGuard    *cache.Cache
	resendInterval time.Duration
}

// NewAuthService 创建认证服务
func NewAuthService(
	users *repository.UserRepository,
	codes *auth.CodeService,
	tokens *auth.TokenService,
	notifier notify.Notifier,
	logger *zap.Logger,
	resendInterval time.Duration,
) *AuthService {
	return &AuthService{
		users:          users,
		codes:          codes,
		tokens:         tokens,
		notifier:       notifier,
		logger:         logger,
		resendGuard:    cache.New(resendInterval, 2*resendInterval),
		resendInterval: resendInterval,
	}
}

// Signup 申请注册。
// (username, email) 完全相同的重复申请是幂等的，会重新签发确认码；
// 用户名或邮箱被其他配对占用则返回 Conflict。
// 邮件发送失败不阻断注册，确认码本身已经生效。
func (s *AuthService) Signup(username, email string) (*model.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	switch {
	case user != nil && user.Email == email:
		// 幂等重新申请：轮换盐值签发新码，旧码随之失效。
		// 间隔内的重复申请不轮换盐值，重发的仍是当前生效的码
		if _, throttled := s.resendGuard.Get(username); !throttled {
			salt, err := s.codes.NewSalt()
			if err != nil {
				return nil, err
			}
			user.ConfirmationSalt = salt
			if err := s.users.Save(user); err != nil {
				return nil, err
			}
		}
	case user != nil:
		return nil, apperr.E(apperr.ErrConflict, "用户名已被占用")
	default:
		other, err := s.users.FindByEmail(email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperr.E(apperr.ErrConflict, "邮箱已被占用")
		}

		salt, err := s.codes.NewSalt()
		if err != nil {
			return nil, err
		}
		user = &model.User{
			Username:         username,
			Email:            email,
			Role:             model.RoleUser,
			ConfirmationSalt: salt,
		}
		// 并发注册同一用户名/邮箱时由唯一约束兜底
		if err := s.users.Create(user); err != nil {
			return nil, err
		}
	}

	code, err := s.codes.Derive(user)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.SendCode(user, code); err != nil {
		s.logger.Warn("确认码发送失败",
			zap.String("username", user.Username),
			zap.Error(err),
		)
	}
	s.resendGuard.Set(username, struct{}{}, s.resendInterval)

	return user, nil
}

// IssueToken 校验确认码并签发会话令牌。
// 用户不存在返回 NotFound，确认码不匹配统一返回 InvalidCredentials
func (s *AuthService) IssueToken(username, code string) (string, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.E(apperr.ErrNotFound, "用户不存在")
	}

	if !s.codes.Verify(user, code) {
		return "", apperr.E(apperr.ErrInvalidCredentials, "确认码无效")
	}

	return s.tokens.Generate(user)
}
