// Package response 提供统一的 HTTP 响应封装
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body 统一响应结构
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ListBody 分页列表响应结构
type ListBody struct {
	Success bool  `json:"success"`
	Count   int   `json:"count"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	Data    any   `json:"data"`
}

// Success 返回 200 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// SuccessWithMessage 返回 200 成功响应并附带消息
func SuccessWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

// Created 返回 201 创建成功响应
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// Error 返回失败响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Success: false, Message: message})
}

// ErrorWithDetail 返回失败响应并附带错误详情（仅限非生产环境使用）
func ErrorWithDetail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, Body{Success: false, Message: message, Error: detail})
}

// Paginated 返回分页列表响应
func Paginated(c *gin.Context, data any, count int, total int64, page, limit int) {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	c.JSON(http.StatusOK, ListBody{
		Success: true,
		Count:   count,
		Total:   total,
		Page:    page,
		Pages:   pages,
		Data:    data,
	})
}
