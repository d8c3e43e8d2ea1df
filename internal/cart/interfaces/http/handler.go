// Package http 购物车的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aegisgear/commerce/internal/cart/application"
	"github.com/aegisgear/commerce/internal/cart/domain"
	catalogdomain "github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/aegisgear/commerce/pkg/middleware"
	"github.com/aegisgear/commerce/pkg/response"
	"github.com/gin-gonic/gin"
)

// CartHandler HTTP 处理器
type CartHandler struct {
	service *application.CartService
}

// NewCartHandler 创建 HTTP 处理器实例
func NewCartHandler(service *application.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes 注册路由，调用方需挂载用户鉴权中间件
func (h *CartHandler) RegisterRoutes(api *gin.RouterGroup) {
	cart := api.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("", h.AddItem)
		cart.PUT("/:itemId", h.UpdateItem)
		cart.DELETE("/:itemId", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

// GetCart 获取购物车
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	snapshot, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get cart", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.Success(c, snapshot)
}

// AddItemRequest 加购请求
type AddItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// AddItem 添加商品到购物车
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Valid product ID and quantity required")
		return
	}

	userID := middleware.CurrentUserID(c)
	snapshot, err := h.service.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Added to cart", snapshot)
}

// UpdateItemRequest 修改数量请求
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateItem 修改购物车行数量
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	userID := middleware.CurrentUserID(c)
	snapshot, err := h.service.UpdateItem(c.Request.Context(), userID, uint(itemID), req.Quantity)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Cart updated", snapshot)
}

// RemoveItem 删除购物车行
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	userID := middleware.CurrentUserID(c)
	snapshot, err := h.service.RemoveItem(c.Request.Context(), userID, uint(itemID))
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Item removed from cart", snapshot)
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	snapshot, err := h.service.Clear(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Cart cleared", snapshot)
}

// renderError 将领域错误映射为 HTTP 响应
func (h *CartHandler) renderError(c *gin.Context, err error) {
	var stockErr *catalogdomain.InsufficientStockError

	switch {
	case errors.Is(err, application.ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, "Quantity must be at least 1")
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, catalogdomain.ErrProductUnavailable):
		response.Error(c, http.StatusBadRequest, "Product is not available")
	case errors.As(err, &stockErr):
		response.Error(c, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, domain.ErrCartNotFound):
		response.Error(c, http.StatusNotFound, "Cart not found")
	case errors.Is(err, domain.ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "Item not found in cart")
	default:
		logger.Error(c.Request.Context(), "Cart operation failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
	}
}
