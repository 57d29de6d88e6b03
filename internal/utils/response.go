package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/kritika/internal/apperr"
)

// Response 统一API响应结构
type Response struct {
	Code    int         `json:"code"`    // 状态码
	Message string      `json:"message"` // 消息
	Data    interface{} `json:"data"`    // 数据
	Success bool        `json:"success"` // 是否成功
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    200,
		Message: "success",
		Data:    data,
		Success: true,
	})
}

// Created 返回201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    201,
		Message: "created",
		Data:    data,
		Success: true,
	})
}

// NoContent 返回204响应
func NoContent(c *gin.Context) {
	c.Status(204)
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
		Success: false,
	})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// Unauthorized 返回401错误
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未登录"
	}
	Error(c, 401, message)
}

// Forbidden 返回403错误
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "没有操作权限"
	}
	Error(c, 403, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	Error(c, 404, message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	Error(c, 500, message)
}

// FromError 按错误分类映射 HTTP 状态码，核心层所有错误统一走这里
func FromError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrInvalidCredentials):
		Error(c, 400, msg)
	case errors.Is(err, apperr.ErrUnauthenticated):
		Error(c, 401, msg)
	case errors.Is(err, apperr.ErrForbidden):
		Error(c, 403, msg)
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, 404, msg)
	case errors.Is(err, apperr.ErrConflict):
		Error(c, 409, msg)
	default:
		InternalServerError(c, "")
	}
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Pagination 解析 limit/offset 分页参数
func Pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Paged 返回分页列表响应
func Paged(c *gin.Context, count int64, results interface{}) {
	Success(c, gin.H{
		"count":   count,
		"results": results,
	})
}
