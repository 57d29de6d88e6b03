package service

import (
	"github.com/user/kritika/internal/apperr"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/repository"
)

// UserService 用户目录管理
type UserService struct {
	users *repository.UserRepository
	codes *auth.CodeService
}

// NewUserService 创建用户服务
func NewUserService(users *repository.UserRepository, codes *auth.CodeService) *UserService {
	return &UserService{users: users, codes: codes}
}

// UserPatch 资料更新字段，nil 表示不修改
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *model.Role
}

// Create 创建用户。(username, email) 完全相同的已有用户幂等返回，
// 任一字段被其他配对占用则返回 Conflict
func (s *UserService) Create(username, email string, patch UserPatch) (*model.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Email == email {
			return existing, nil
		}
		return nil, apperr.E(apperr.ErrConflict, "用户名已被占用")
	}
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
	user := &model.User{
		Username:         username,
		Email:            email,
		Role:             model.RoleUser,
		ConfirmationSalt: salt,
	}
	applyProfileFields(user, patch)
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, apperr.E(apperr.ErrInvalidInput, "未知的角色")
		}
		user.Role = *patch.Role
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile 更新用户资料。
// allowRole 为 false 时（自助 /me 接口）提交的角色字段会被静默丢弃，
// 角色强制保持存储值，防止通过自助接口自提权
func (s *UserService) UpdateProfile(target *model.User, patch UserPatch, allowRole bool) (*model.User, error) {
	if patch.Username != nil && *patch.Username != target.Username {
		if err := ValidateUsername(*patch.Username); err != nil {
			return nil, err
		}
		other, err := s.users.FindByUsername(*patch.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != target.ID {
			return nil, apperr.E(apperr.ErrConflict, "用户名已被占用")
		}
		target.Username = *patch.Username
	}
	if patch.Email != nil && *patch.Email != target.Email {
		if err := ValidateEmail(*patch.Email); err != nil {
			return nil, err
		}
		other, err := s.users.FindByEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != target.ID {
			return nil, apperr.E(apperr.ErrConflict, "邮箱已被占用")
		}
		target.Email = *patch.Email
	}
	applyProfileFields(target, patch)
	if patch.Role != nil && allowRole {
		if !patch.Role.Valid() {
			return nil, apperr.E(apperr.ErrInvalidInput, "未知的角色")
		}
		target.Role = *patch.Role
	}

	if err := s.users.Save(target); err != nil {
		return nil, err
	}
	return target, nil
}

// FindByUsername 查找用户，不存在返回 NotFound
func (s *UserService) FindByUsername(username string) (*model.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.E(apperr.ErrNotFound, "用户不存在")
	}
	return user, nil
}

// List 搜索用户列表
func (s *UserService) List(search string, limit, offset int) ([]*model.User, int64, error) {
	return s.users.List(search, limit, offset)
}

// Delete 删除用户
func (s *UserService) Delete(user *model.User) error {
	return s.users.Delete(user)
}

func applyProfileFields(user *model.User, patch UserPatch) {
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
}
