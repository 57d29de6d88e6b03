package auth

import (
	"errors"
	"testing"

	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/model"
)

func TestAuthorize(t *testing.T) {
	anonymous := Actor{}
	user := Actor{ID: 1, Role: model.RoleUser, Authenticated: true}
	otherUser := Actor{ID: 2, Role: model.RoleUser, Authenticated: true}
	moderator := Actor{ID: 3, Role: model.RoleModerator, Authenticated: true}
	admin := Actor{ID: 4, Role: model.RoleAdmin, Authenticated: true}
	superuser := Actor{ID: 5, Role: model.RoleUser, IsSuperuser: true, Authenticated: true}

	tests := []struct {
		name  string
		actor Actor
		op    Operation
		res   Resource
		want  error
	}{
		{"匿名可读作品", anonymous, OpRead, Resource{Kind: KindTitle}, nil},
		{"匿名可读评论", anonymous, OpRead, Resource{Kind: KindReview, OwnerID: 1}, nil},
		{"匿名不能写评论", anonymous, OpCreate, Resource{Kind: KindReview}, apperr.ErrUnauthenticated},
		{"匿名不能写分类", anonymous, OpCreate, Resource{Kind: KindCategory}, apperr.ErrUnauthenticated},
		{"普通用户可创建评论", user, OpCreate, Resource{Kind: KindReview}, nil},
		{"普通用户可创建回复", user, OpCreate, Resource{Kind: KindComment}, nil},
		{"普通用户可改自己的评论", user, OpUpdate, Resource{Kind: KindReview, OwnerID: 1}, nil},
		{"普通用户不能改他人评论", otherUser, OpUpdate, Resource{Kind: KindReview, OwnerID: 1}, apperr.ErrForbidden},
		{"普通用户不能删他人评论", otherUser, OpDelete, Resource{Kind: KindReview, OwnerID: 1}, apperr.ErrForbidden},
		{"版主可删他人评论", moderator, OpDelete, Resource{Kind: KindReview, OwnerID: 1}, nil},
		{"管理员可删他人评论", admin, OpDelete, Resource{Kind: KindReview, OwnerID: 1}, nil},
		{"普通用户不能建分类", user, OpCreate, Resource{Kind: KindCategory}, apperr.ErrForbidden},
		{"版主不能建分类", moderator, OpCreate, Resource{Kind: KindCategory}, apperr.ErrForbidden},
		{"管理员可建分类", admin, OpCreate, Resource{Kind: KindCategory}, nil},
		{"管理员可删体裁", admin, OpDelete, Resource{Kind: KindGenre}, nil},
		{"管理员可改作品", admin, OpUpdate, Resource{Kind: KindTitle}, nil},
		{"超级用户等同管理员", superuser, OpCreate, Resource{Kind: KindTitle}, nil},
		{"本人可读自己的资料", user, OpRead, Resource{Kind: KindUserProfile, OwnerID: 1}, nil},
		{"本人可改自己的资料", user, OpUpdate, Resource{Kind: KindUserProfile, OwnerID: 1}, nil},
		{"普通用户不能读他人资料", otherUser, OpRead, Resource{Kind: KindUserProfile, OwnerID: 1}, apperr.ErrForbidden},
		{"普通用户不能列出用户", user, OpRead, Resource{Kind: KindUserProfile}, apperr.ErrForbidden},
		{"版主不能列出用户", moderator, OpRead, Resource{Kind: KindUserProfile}, apperr.ErrForbidden},
		{"管理员可列出用户", admin, OpRead, Resource{Kind: KindUserProfile}, nil},
		{"管理员可删用户", admin, OpDelete, Resource{Kind: KindUserProfile, OwnerID: 1}, nil},
		{"本人不能删自己的目录记录", user, OpDelete, Resource{Kind: KindUserProfile, OwnerID: 1}, apperr.ErrForbidden},
		{"匿名访问用户目录", anonymous, OpRead, Resource{Kind: KindUserProfile, OwnerID: 1}, apperr.ErrUnauthenticated},
	}

	policy := NewPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Authorize(tt.actor, tt.op, tt.res)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Authorize() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

// 相同输入必须得到相同判定
func TestAuthorizeIsPure(t *testing.T) {
	policy := NewPolicy()
	actor := Actor{ID: 7, Role: model.RoleUser, Authenticated: true}
	res := Resource{Kind: KindReview, OwnerID: 9}

	first := policy.Authorize(actor, OpDelete, res)
	for i := 0; i < 100; i++ {
		if got := policy.Authorize(actor, OpDelete, res); !errors.Is(got, apperr.ErrForbidden) || (got == nil) != (first == nil) {
			t.Fatalf("第 %d 次判定结果不一致: %v vs %v", i, got, first)
		}
	}
}
