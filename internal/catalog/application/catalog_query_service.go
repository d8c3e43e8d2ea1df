package application

import (
	"context"
	"errors"
	"time"

	"github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/pkg/cache"
	"github.com/aegisgear/commerce/pkg/logger"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repo     domain.ProductRepository
	cache    cache.Store
	cacheTTL time.Duration
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(repo domain.ProductRepository, store cache.Store, cacheTTL time.Duration) *CatalogQueryService {
	return &CatalogQueryService{repo: repo, cache: store, cacheTTL: cacheTTL}
}

// GetProductBySlug 获取商品详情，优先走缓存
func (s *CatalogQueryService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	key := productCacheKey(slug)

	var cached domain.Product
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn(ctx, "Product cache read failed", "slug", slug, "error", err)
	}

	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domain.ErrProductNotFound
	}

	if err := s.cache.SetJSON(ctx, key, product, s.cacheTTL); err != nil {
		logger.Warn(ctx, "Product cache write failed", "slug", slug, "error", err)
	}
	return product, nil
}

// ListProducts 获取商品列表
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.ListFilter, page, limit int) ([]*domain.Product, int64, error) {
	offset := (page - 1) * limit
	return s.repo.List(ctx, filter, offset, limit)
}
