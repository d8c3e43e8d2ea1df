// Package http 用户的 HTTP 接口层
package http

import (
	"errors"
	"net/http"

	"github.com/aegisgear/commerce/internal/user/domain"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/aegisgear/commerce/pkg/middleware"
	"github.com/aegisgear/commerce/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserHandler HTTP 处理器
type UserHandler struct {
	users domain.UserRepository
}

// NewUserHandler 创建 HTTP 处理器实例
func NewUserHandler(users domain.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes 注册路由，调用方需挂载用户鉴权中间件
func (h *UserHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/users/me", h.Me)
}

// Me 当前登录用户信息
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to load user", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Success(c, user)
}
