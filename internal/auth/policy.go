package auth

import (
	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/model"
)

// Operation 操作类型
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ResourceKind 资源类型
type ResourceKind string

const (
	KindCategory    ResourceKind = "category"
	KindGenre       ResourceKind = "genre"
	KindTitle       ResourceKind = "title"
	KindReview      ResourceKind = "review"
	KindComment     ResourceKind = "comment"
	KindUserProfile ResourceKind = "user_profile"
)

// Actor 请求主体快照（匿名请求时 Authenticated 为 false，其余字段为零值）
type Actor struct {
	ID            uint
	Role          model.Role
	IsSuperuser   bool
	Authenticated bool
}

// ActorFromUser 由用户记录构造请求主体快照
func ActorFromUser(u *model.User) Actor {
	return Actor{
		ID:            u.ID,
		Role:          u.Role,
		IsSuperuser:   u.IsSuperuser,
		Authenticated: true,
	}
}

// Resource 被操作资源的快照。
// OwnerID 对 Review/Comment 是作者 ID，对 UserProfile 是资料属主 ID，
// 集合级操作（列表、创建）传 0。
type Resource struct {
	Kind    ResourceKind
	OwnerID uint
}

// Policy 访问控制策略。无内部状态，启动时构造一次并显式传给各 handler，
// 判定结果只取决于 (actor, op, res) 三元组。
type Policy struct{}

// NewPolicy 构造策略
func NewPolicy() *Policy {
	return &Policy{}
}

// Authorize 判定 actor 能否对资源执行指定操作。
// 允许返回 nil，未登录的写操作返回 ErrUnauthenticated，其余拒绝返回 ErrForbidden。
// 规则按顺序求值，命中即停：
//  1. 用户目录单独处理：本人可读改自己的资料，其余操作仅限管理员
//  2. 目录类资源（分类/体裁/作品/评论/回复）全局可读
//  3. 未登录禁止任何写操作
//  4. 分类/体裁/作品的写操作仅限管理员
//  5. 评论/回复：登录即可创建；修改删除限作者本人、版主或管理员
func (p *Policy) Authorize(actor Actor, op Operation, res Resource) error {
	if res.Kind == KindUserProfile {
		if !actor.Authenticated {
			return apperr.ErrUnauthenticated
		}
		if res.OwnerID != 0 && res.OwnerID == actor.ID && (op == OpRead || op == OpUpdate) {
			return nil
		}
		if p.IsAdmin(actor) {
			return nil
		}
		return apperr.ErrForbidden
	}

	if op == OpRead {
		return nil
	}

	if !actor.Authenticated {
		return apperr.ErrUnauthenticated
	}

	switch res.Kind {
	case KindCategory, KindGenre, KindTitle:
		if p.IsAdmin(actor) {
			return nil
		}
		return apperr.ErrForbidden
	case KindReview, KindComment:
		if op == OpCreate {
			return nil
		}
		if actor.ID == res.OwnerID || actor.Role == model.RoleModerator || p.IsAdmin(actor) {
			return nil
		}
		return apperr.ErrForbidden
	}

	return apperr.ErrForbidden
}

// IsAdmin 判断 actor 是否具备管理员权限（角色为 admin 或超级用户）
func (p *Policy) IsAdmin(actor Actor) bool {
	return actor.Role == model.RoleAdmin || actor.IsSuperuser
}
