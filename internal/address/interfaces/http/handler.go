// Package http 收货地址的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aegisgear/commerce/internal/address/application"
	"github.com/aegisgear/commerce/internal/address/domain"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/aegisgear/commerce/pkg/middleware"
	"github.com/aegisgear/commerce/pkg/response"
	"github.com/gin-gonic/gin"
)

// AddressHandler HTTP 处理器
type AddressHandler struct {
	service *application.AddressService
}

// NewAddressHandler 创建 HTTP 处理器实例
func NewAddressHandler(service *application.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// RegisterRoutes 注册路由，调用方需挂载用户鉴权中间件
func (h *AddressHandler) RegisterRoutes(api *gin.RouterGroup) {
	addresses := api.Group("/addresses")
	{
		addresses.GET("", h.ListAddresses)
		addresses.POST("", h.CreateAddress)
		addresses.GET("/:addressId", h.GetAddress)
		addresses.PUT("/:addressId", h.UpdateAddress)
		addresses.DELETE("/:addressId", h.DeleteAddress)
	}
}

// AddressRequest 新增或更新地址请求
type AddressRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Phone      string `json:"phone"`
	Line1      string `json:"addressLine1" binding:"required"`
	Line2      string `json:"addressLine2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

func (r AddressRequest) command() application.AddressCommand {
	return application.AddressCommand{
		FullName:   r.FullName,
		Phone:      r.Phone,
		Line1:      r.Line1,
		Line2:      r.Line2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		IsDefault:  r.IsDefault,
	}
}

// ListAddresses 用户地址列表
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.service.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list addresses", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增地址
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Full name and address line are required")
		return
	}

	address, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), req.command())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create address", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}
	response.Created(c, "Address created successfully", address)
}

// GetAddress 地址详情
func (h *AddressHandler) GetAddress(c *gin.Context) {
	id, ok := addressIDParam(c)
	if !ok {
		return
	}

	address, err := h.service.Get(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, address)
}

// UpdateAddress 更新地址
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	id, ok := addressIDParam(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Full name and address line are required")
		return
	}

	address, err := h.service.Update(c.Request.Context(), id, middleware.CurrentUserID(c), req.command())
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Address updated successfully", address)
}

// DeleteAddress 删除地址
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	id, ok := addressIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Address deleted successfully", nil)
}

func (h *AddressHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrAddressNotFound) {
		response.Error(c, http.StatusNotFound, "Address not found")
		return
	}
	logger.Error(c.Request.Context(), "Address operation failed", "error", err)
	response.Error(c, http.StatusInternalServerError, "Server error")
}

func addressIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("addressId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Address not found")
		return 0, false
	}
	return uint(id), true
}
