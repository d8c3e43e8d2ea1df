package mysql

import (
	"context"
	"errors"

	"github.com/aegisgear/commerce/internal/catalog/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) conn(ctx context.Context) *gorm.DB {
	return pkgdb.FromContext(ctx, r.db)
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.conn(ctx).Save(product).Error
}

// Update 资料更新省略台账列，并发的扣减与恢复不会被旧快照覆盖
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.conn(ctx).Omit("stock", "total_sales").Save(product).Error
}

func (r *productRepository) SetStock(ctx context.Context, id uint, stock int) error {
	return r.conn(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := r.conn(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	if err := r.conn(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ListFilter, offset, limit int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64

	q := r.conn(ctx).Model(&domain.Product{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}
	if filter.Search != "" {
		q = q.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

// DecrementStock 单条条件 UPDATE 完成检查与扣减，并发下不会把库存写成负数
func (r *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := r.conn(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]any{
			"stock":       gorm.Expr("stock - ?", quantity),
			"total_sales": gorm.Expr("total_sales + ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return &domain.InsufficientStockError{
			ProductID: id,
			Name:      p.Name,
			Requested: quantity,
			Available: p.Stock,
		}
	}
	return nil
}

func (r *productRepository) RestoreStock(ctx context.Context, id uint, quantity int) error {
	res := r.conn(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":       gorm.Expr("stock + ?", quantity),
			"total_sales": gorm.Expr("total_sales - ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
