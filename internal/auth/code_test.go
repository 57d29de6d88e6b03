package auth

import (
	"testing"

	"github.com/user/kritika/internal/model"
)

func testUser(salt string) *model.User {
	return &model.User{
		ID:               1,
		Username:         "alice",
		Email:            "alice@example.com",
		ConfirmationSalt: salt,
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	svc := NewCodeService("test-secret")
	user := testUser("aabbccdd")

	first, err := svc.Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	second, err := svc.Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if first != second {
		t.Fatalf("同一状态派生出不同确认码: %q vs %q", first, second)
	}
	if len(first) != 12 {
		t.Fatalf("确认码长度 = %d, want 12", len(first))
	}
}

func TestVerify(t *testing.T) {
	svc := NewCodeService("test-secret")
	user := testUser("aabbccdd")

	code, err := svc.Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	if !svc.Verify(user, code) {
		t.Fatal("正确的确认码校验失败")
	}
	if svc.Verify(user, "000000000000") {
		t.Fatal("错误的确认码通过了校验")
	}
	if svc.Verify(user, "") {
		t.Fatal("空确认码通过了校验")
	}
}

// 盐值轮换后旧确认码必须失效
func TestSaltRotationInvalidatesOldCode(t *testing.T) {
	svc := NewCodeService("test-secret")
	user := testUser("aabbccdd")

	oldCode, err := svc.Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	salt, err := svc.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt() error = %v", err)
	}
	user.ConfirmationSalt = salt

	if svc.Verify(user, oldCode) {
		t.Fatal("盐值轮换后旧确认码仍然有效")
	}
	newCode, err := svc.Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if !svc.Verify(user, newCode) {
		t.Fatal("新确认码校验失败")
	}
}

// 修改邮箱等用户状态同样使确认码失效
func TestUserStateChangeInvalidatesCode(t *testing.T) {
	svc := NewCodeService("test-secret")
	user := testUser("aabbccdd")

	code, err := svc.Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	user.Email = "new@example.com"
	if svc.Verify(user, code) {
		t.Fatal("邮箱变更后旧确认码仍然有效")
	}
}

func TestDifferentSecretsProduceDifferentCodes(t *testing.T) {
	user := testUser("aabbccdd")

	a, err := NewCodeService("secret-a").Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	b, err := NewCodeService("secret-b").Derive(user)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if a == b {
		t.Fatal("不同服务端密钥派生出相同确认码")
	}
}
