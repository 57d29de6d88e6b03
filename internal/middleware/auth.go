package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/auth"
	"github.com/user/kritika/internal/model"
	"github.com/user/kritika/internal/repository"
	"github.com/user/kritika/internal/utils"
)

const actorKey = "actor"

// Authenticator 解析请求令牌并把 Actor 注入上下文
type Authenticator struct {
	tokens *auth.TokenService
	users  *repository.UserRepository
	// 令牌 → 用户快照，减少每个请求的用户表查询。
	// 代价是用户被删除或角色变更后，已签发的令牌最多还能生效一个 TTL（30 秒）
	cache *utils.TTLCache[model.User]
}

// NewAuthenticator 创建认证中间件
func NewAuthenticator(tokens *auth.TokenService, users *repository.UserRepository) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
		cache:  utils.NewTTLCache[model.User](1024, 30*time.Second),
	}
}

// Resolve 可选认证：携带合法令牌则注入 actor，否则按匿名继续
func (a *Authenticator) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		user, ok := a.lookup(tokenString)
		if !ok {
			c.Next()
			return
		}

		c.Set(actorKey, auth.ActorFromUser(user))
		c.Set("user", user)
		c.Next()
	}
}

// RequireAuth 必须认证，匿名请求返回 401
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(actorKey); !exists {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// lookup 先查缓存再落库，令牌非法或用户已被删除时返回 false
func (a *Authenticator) lookup(tokenString string) (*model.User, bool) {
	if cached, ok := a.cache.Get(tokenString); ok {
		return &cached, true
	}

	claims, err := a.tokens.Parse(tokenString)
	if err != nil {
		return nil, false
	}
	user, err := a.users.FindByID(claims.UserID)
	if err != nil || user == nil {
		return nil, false
	}

	a.cache.Set(tokenString, *user)
	return user, true
}

// GetActor 从上下文取 Actor（匿名请求返回零值）
func GetActor(c *gin.Context) auth.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(auth.Actor); ok {
			return actor
		}
	}
	return auth.Actor{}
}

// GetUser 从上下文取当前用户记录（匿名返回 nil）
func GetUser(c *gin.Context) *model.User {
	if v, exists := c.Get("user"); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
