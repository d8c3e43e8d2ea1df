// Package application 包含商品目录的应用服务
package application

import (
	"context"
	"fmt"

	"github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/pkg/cache"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/shopspring/decimal"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Slug        string
	Name        string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Images      []string
}

// UpdateProductCommand 更新商品命令。
// Stock 为 nil 时不改动库存，台账列由扣减/恢复独占。
type UpdateProductCommand struct {
	ID          uint
	Name        string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	Stock       *int
	IsActive    *bool
	Images      []string
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	repo  domain.ProductRepository
	cache cache.Store
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(repo domain.ProductRepository, store cache.Store) *CatalogCommandService {
	return &CatalogCommandService{repo: repo, cache: store}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	product := &domain.Product{
		Slug:        cmd.Slug,
		Name:        cmd.Name,
		Description: cmd.Description,
		Brand:       cmd.Brand,
		Category:    cmd.Category,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		IsActive:    true,
		Images:      cmd.Images,
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct 处理更新商品，写入后失效详情缓存
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.Brand = cmd.Brand
	product.Category = cmd.Category
	product.Price = cmd.Price
	if cmd.IsActive != nil {
		product.IsActive = *cmd.IsActive
	}
	if cmd.Images != nil {
		product.Images = cmd.Images
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if cmd.Stock != nil {
		if err := s.repo.SetStock(ctx, product.ID, *cmd.Stock); err != nil {
			return nil, err
		}
		product.Stock = *cmd.Stock
	}

	if err := s.cache.Delete(ctx, productCacheKey(product.Slug)); err != nil {
		logger.Warn(ctx, "Product cache invalidation failed", "slug", product.Slug, "error", err)
	}
	return product, nil
}

// DeactivateProduct 下架商品（软删除，已存在的订单不受影响）
func (s *CatalogCommandService) DeactivateProduct(ctx context.Context, id uint) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	product.IsActive = false
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, productCacheKey(product.Slug)); err != nil {
		logger.Warn(ctx, "Product cache invalidation failed", "slug", product.Slug, "error", err)
	}
	return nil
}

func productCacheKey(slug string) string {
	return fmt.Sprintf("catalog:product:%s", slug)
}
