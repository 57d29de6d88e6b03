package service

import (
	"errors"
	"testing"
	"time"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/repository"
	"go.uber.org/zap"
)

func newAuthService(repos *repository.Repositories, notifier *captureNotifier, resendInterval time.Duration) (*AuthService, *auth.TokenService) {
	codes := auth.NewCodeService("test-secret")
	tokens := auth.NewTokenService("test-secret", time.Hour)
	svc := NewAuthService(repos.User, codes, tokens, notifier, zap.NewNop(), resendInterval)
	return svc, tokens
}

// 完整注册流程：申请确认码，先用错误码再用正确码换取令牌
func TestSignupThenIssueToken(t *testing.T) {
	repos := newTestDB(t)
	notifier := newCaptureNotifier()
	svc, tokens := newAuthService(repos, notifier, time.Minute)

	user, err := svc.Signup("alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Fatalf("Signup() = %s/%s, want alice/alice@example.com", user.Username, user.Email)
	}

	code, ok := notifier.codes["alice"]
	if !ok || code == "" {
		t.Fatal("注册后没有收到确认码")
	}

	if _, err := svc.IssueToken("alice", "000000000000"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("错误确认码 err = %v, want InvalidCredentials", err)
	}

	// 一次失败不作废确认码，正确的码仍然有效
	token, err := svc.IssueToken("alice", code)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("令牌主体 = %q, want alice", claims.Username)
	}
}

func TestSignupReservedUsername(t *testing.T) {
	repos := newTestDB(t)
	svc, _ := newAuthService(repos, newCaptureNotifier(), time.Minute)

	_, err := svc.Signup("me", "me@example.com")
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("保留用户名 err = %v, want InvalidInput", err)
	}
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	repos := newTestDB(t)
	svc, _ := newAuthService(repos, newCaptureNotifier(), time.Minute)

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"空用户名", "", "a@example.com"},
		{"非法字符", "alice!", "a@example.com"},
		{"空邮箱", "alice", ""},
		{"非法邮箱", "alice", "not-an-email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Signup(tt.username, tt.email); !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("Signup(%q, %q) err = %v, want InvalidInput", tt.username, tt.email, err)
			}
		})
	}
}

func TestSignupConflicts(t *testing.T) {
	repos := newTestDB(t)
	svc, _ := newAuthService(repos, newCaptureNotifier(), time.Minute)

	if _, err := svc.Signup("alice", "alice@example.com"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if _, err := svc.Signup("alice", "other@example.com"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("用户名被占用 err = %v, want Conflict", err)
	}
	if _, err := svc.Signup("bob", "alice@example.com"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("邮箱被占用 err = %v, want Conflict", err)
	}
}

// 间隔内的重复申请不轮换盐值：重发的还是当前生效的码，旧码不失效
func TestSignupThrottledResendKeepsCode(t *testing.T) {
	repos := newTestDB(t)
	notifier := newCaptureNotifier()
	svc, _ := newAuthService(repos, notifier, time.Minute)

	if _, err := svc.Signup("alice", "alice@example.com"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	code := notifier.codes["alice"]

	if _, err := svc.Signup("alice", "alice@example.com"); err != nil {
		t.Fatalf("重复 Signup() error = %v", err)
	}
	// 每次申请都必须下发确认码
	if notifier.sends["alice"] != 2 {
		t.Fatalf("发送次数 = %d, want 2", notifier.sends["alice"])
	}
	if notifier.codes["alice"] != code {
		t.Fatal("间隔内的重复申请签发了新码")
	}
	if _, err := svc.IssueToken("alice", code); err != nil {
		t.Fatalf("原确认码失效了: %v", err)
	}
}

// 超过间隔的重新申请会签发新码并作废旧码
func TestSignupReissueRotatesCode(t *testing.T) {
	repos := newTestDB(t)
	notifier := newCaptureNotifier()
	svc, _ := newAuthService(repos, notifier, time.Millisecond)

	if _, err := svc.Signup("alice", "alice@example.com"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	oldCode := notifier.codes["alice"]

	time.Sleep(10 * time.Millisecond)

	if _, err := svc.Signup("alice", "alice@example.com"); err != nil {
		t.Fatalf("重新申请 error = %v", err)
	}
	newCode := notifier.codes["alice"]
	if newCode == oldCode {
		t.Fatal("重新申请没有签发新确认码")
	}

	if _, err := svc.IssueToken("alice", oldCode); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("旧确认码 err = %v, want InvalidCredentials", err)
	}
	if _, err := svc.IssueToken("alice", newCode); err != nil {
		t.Fatalf("新确认码 error = %v", err)
	}
}

func TestIssueTokenUnknownUser(t *testing.T) {
	repos := newTestDB(t)
	svc, _ := newAuthService(repos, newCaptureNotifier(), time.Minute)

	if _, err := svc.IssueToken("ghost", "whatever"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("不存在的用户 err = %v, want NotFound", err)
	}
}
