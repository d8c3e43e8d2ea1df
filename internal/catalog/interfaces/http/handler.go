// Package http 商品目录的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aegisgear/commerce/internal/catalog/application"
	"github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/aegisgear/commerce/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 12

// ProductHandler HTTP 处理器
type ProductHandler struct {
	cmd   *application.CatalogCommandService
	query *application.CatalogQueryService
}

// NewProductHandler 创建 HTTP 处理器实例
func NewProductHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService) *ProductHandler {
	return &ProductHandler{cmd: cmd, query: query}
}

// RegisterRoutes 注册公开路由
func (h *ProductHandler) RegisterRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:slug", h.GetProduct)
	}
}

// RegisterAdminRoutes 注册管理端路由，调用方需挂载鉴权中间件
func (h *ProductHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	products := admin.Group("/admin/products")
	{
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeactivateProduct)
	}
}

// ListProducts 商品列表
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, limit := pagination(c, defaultPageSize)
	filter := domain.ListFilter{
		Category:   c.Query("category"),
		Brand:      c.Query("brand"),
		Search:     c.Query("search"),
		ActiveOnly: true,
	}

	products, total, err := h.query.ListProducts(c.Request.Context(), filter, page, limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.Paginated(c, products, len(products), total, page, limit)
}

// GetProduct 商品详情
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.query.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get product", "slug", c.Param("slug"), "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.Success(c, product)
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Slug        string          `json:"slug" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	Images      []string        `json:"images"`
}

// CreateProduct 创建商品
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.cmd.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create product", "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.Created(c, "Product created successfully", product)
}

// UpdateProductRequest 更新商品请求，stock 缺省时保持台账不动
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       *int            `json:"stock" binding:"omitempty,min=0"`
	IsActive    *bool           `json:"is_active"`
	Images      []string        `json:"images"`
}

// UpdateProduct 更新商品
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.cmd.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ID:          uint(id),
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		Images:      req.Images,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to update product", "id", id, "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.SuccessWithMessage(c, "Product updated", product)
}

// DeactivateProduct 下架商品
func (h *ProductHandler) DeactivateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.cmd.DeactivateProduct(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to deactivate product", "id", id, "error", err)
		response.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	response.SuccessWithMessage(c, "Product deactivated", nil)
}

// pagination 解析分页参数
func pagination(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}
