package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/middleware"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/service"
	"github.com/user/kritika/internal/utils"
)

// UserCreateRequest 管理员创建用户入参
type UserCreateRequest struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// UserPatchRequest 用户资料更新入参
type UserPatchRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (req *UserPatchRequest) toPatch() service.UserPatch {
	patch := service.UserPatch{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}

// UserList 用户列表（仅管理员），支持 search= 用户名子串搜索
func (h *Handler) UserList(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpRead, auth.Resource{Kind: auth.KindUserProfile}); err != nil {
		utils.FromError(c, err)
		return
	}

	limit, offset := utils.Pagination(c)
	users, count, err := h.Users.List(c.Query("search"), limit, offset)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Paged(c, count, users)
}

// UserCreate 管理员创建用户
func (h *Handler) UserCreate(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpCreate, auth.Resource{Kind: auth.KindUserProfile}); err != nil {
		utils.FromError(c, err)
		return
	}

	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	patch := (&UserPatchRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	}).toPatch()
	user, err := h.Users.Create(req.Username, req.Email, patch)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, user)
}

// UserDetail 查看用户资料。路径参数为保留值 me 时返回当前用户
func (h *Handler) UserDetail(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		h.me(c)
		return
	}

	// 非本人查询先过集合级判定，判定结果不随用户名是否存在变化，
	// 避免通过 403/404 差异探测用户名
	actor := middleware.GetActor(c)
	current := middleware.GetUser(c)
	if current == nil || current.Username != username {
		if err := h.Policy.Authorize(actor, auth.OpRead, auth.Resource{Kind: auth.KindUserProfile}); err != nil {
			utils.FromError(c, err)
			return
		}
	}

	target, err := h.Users.FindByUsername(username)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, target)
}

// UserPatch 更新用户资料。
// /users/me 的自助更新会静默丢弃提交的角色字段；管理员可改任何人的角色
func (h *Handler) UserPatch(c *gin.Context) {
	var req UserPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	actor := middleware.GetActor(c)
	if c.Param("username") == "me" {
		user := middleware.GetUser(c)
		if user == nil {
			utils.Unauthorized(c, "")
			return
		}
		updated, err := h.Users.UpdateProfile(user, req.toPatch(), false)
		if err != nil {
			utils.FromError(c, err)
			return
		}
		utils.Success(c, updated)
		return
	}

	// 与 UserDetail 同理，非本人先过集合级判定，防止用户名枚举
	current := middleware.GetUser(c)
	if current == nil || current.Username != c.Param("username") {
		if err := h.Policy.Authorize(actor, auth.OpUpdate, auth.Resource{Kind: auth.KindUserProfile}); err != nil {
			utils.FromError(c, err)
			return
		}
	}

	target, err := h.Users.FindByUsername(c.Param("username"))
	if err != nil {
		utils.FromError(c, err)
		return
	}

	// 角色变更只对管理员生效，资料属主的自助修改一律保持原角色
	updated, err := h.Users.UpdateProfile(target, req.toPatch(), h.Policy.IsAdmin(actor))
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Success(c, updated)
}

// UserDelete 删除用户（仅管理员），/users/me 不允许删除
func (h *Handler) UserDelete(c *gin.Context) {
	if c.Param("username") == "me" {
		utils.Error(c, 405, "不允许删除自己")
		return
	}

	// 删除只对管理员开放，判定先于查找，防止用户名枚举
	actor := middleware.GetActor(c)
	if err := h.Policy.Authorize(actor, auth.OpDelete, auth.Resource{Kind: auth.KindUserProfile}); err != nil {
		utils.FromError(c, err)
		return
	}

	target, err := h.Users.FindByUsername(c.Param("username"))
	if err != nil {
		utils.FromError(c, err)
		return
	}

	if err := h.Users.Delete(target); err != nil {
		utils.FromError(c, err)
		return
	}

	utils.NoContent(c)
}

// me 返回当前用户资料
func (h *Handler) me(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		utils.Unauthorized(c, "")
		return
	}
	utils.Success(c, user)
}
