// Package http 订单的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	catalogdomain "github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/internal/order/application"
	"github.com/aegisgear/commerce/internal/order/domain"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/aegisgear/commerce/pkg/metrics"
	"github.com/aegisgear/commerce/pkg/middleware"
	"github.com/aegisgear/commerce/pkg/response"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 10

// OrderHandler HTTP 处理器
type OrderHandler struct {
	checkout *application.CheckoutService
	cmd      *application.OrderCommandService
	query    *application.OrderQueryService
	metrics  *metrics.Metrics
}

// NewOrderHandler 创建 HTTP 处理器实例
func NewOrderHandler(
	checkout *application.CheckoutService,
	cmd *application.OrderCommandService,
	query *application.OrderQueryService,
	m *metrics.Metrics,
) *OrderHandler {
	return &OrderHandler{checkout: checkout, cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册用户路由，调用方需挂载用户鉴权中间件
func (h *OrderHandler) RegisterRoutes(api *gin.RouterGroup) {
	orders := api.Group("/orders")
	{
		orders.POST("", h.Checkout)
		orders.GET("", h.ListOrders)
		orders.GET("/:orderId", h.GetOrder)
		orders.PATCH("/:orderId/cancel", h.CancelOrder)
	}
}

// RegisterAdminRoutes 注册管理端路由，调用方需挂载管理员鉴权中间件
func (h *OrderHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/admin/orders", h.AdminListOrders)
	orders := admin.Group("/orders")
	{
		orders.PATCH("/:orderId/status", h.UpdateOrderStatus)
		orders.PATCH("/:orderId/payment", h.UpdatePaymentStatus)
	}
}

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	ShippingAddressID uint   `json:"shippingAddressId"`
	PaymentMethod     string `json:"paymentMethod"`
}

// Checkout 将购物车转换为订单
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Shipping address and payment method are required")
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), application.CheckoutCommand{
		UserID:            middleware.CurrentUserID(c),
		ShippingAddressID: req.ShippingAddressID,
		PaymentMethod:     req.PaymentMethod,
	})
	if err != nil {
		h.metrics.CheckoutFailures.Inc()
		h.renderError(c, err)
		return
	}

	h.metrics.OrdersCreatedTotal.Inc()
	response.Created(c, "Order created successfully", order)
}

// ListOrders 用户订单列表
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit := pagination(c)
	userID := middleware.CurrentUserID(c)

	orders, total, err := h.query.ListForUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.Paginated(c, orders, len(orders), total, page, limit)
}

// GetOrder 用户订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.query.GetForUser(c.Request.Context(), orderID, middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrder 取消订单
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.cmd.Cancel(c.Request.Context(), orderID, middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.metrics.OrdersCancelledTotal.Inc()
	response.SuccessWithMessage(c, "Order cancelled successfully", order)
}

// AdminListOrders 管理端订单列表
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	page, limit := pagination(c)

	orders, total, err := h.query.ListAll(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrderStatus) {
			response.Error(c, http.StatusBadRequest, "Invalid order status")
			return
		}
		logger.Error(c.Request.Context(), "Failed to list orders", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.Paginated(c, orders, len(orders), total, page, limit)
}

// UpdateOrderStatusRequest 管理端更新履约状态请求
type UpdateOrderStatusRequest struct {
	OrderStatus string `json:"orderStatus" binding:"required"`
}

// UpdateOrderStatus 管理端更新履约状态
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order status")
		return
	}

	order, err := h.cmd.UpdateStatus(c.Request.Context(), orderID, req.OrderStatus)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Order status updated", order)
}

// UpdatePaymentStatusRequest 管理端更新支付状态请求
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// UpdatePaymentStatus 管理端更新支付状态
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payment status")
		return
	}

	order, err := h.cmd.UpdatePaymentStatus(c.Request.Context(), orderID, req.PaymentStatus)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Payment status updated", order)
}

// renderError 将领域错误映射为 HTTP 响应
func (h *OrderHandler) renderError(c *gin.Context, err error) {
	var stockErr *catalogdomain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrMissingCheckoutFields):
		response.Error(c, http.StatusBadRequest, "Shipping address and payment method are required")
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		response.Error(c, http.StatusBadRequest, "Invalid payment method")
	case errors.Is(err, domain.ErrEmptyCart):
		response.Error(c, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, domain.ErrAddressNotFound):
		response.Error(c, http.StatusBadRequest, "Invalid shipping address")
	case errors.As(err, &stockErr):
		response.Error(c, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		response.Error(c, http.StatusBadRequest, "Cannot cancel order in its current status")
	case errors.Is(err, domain.ErrInvalidOrderStatus):
		response.Error(c, http.StatusBadRequest, "Invalid order status")
	case errors.Is(err, domain.ErrInvalidPaymentStatus):
		response.Error(c, http.StatusBadRequest, "Invalid payment status")
	default:
		logger.Error(c.Request.Context(), "Order operation failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
	}
}

// orderIDParam 解析路径中的订单 ID
func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Order not found")
		return 0, false
	}
	return uint(id), true
}

// pagination 解析分页参数
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultPageSize
	}
	return page, limit
}
