package domain

import "context"

// ListFilter 商品列表过滤条件
type ListFilter struct {
	Category   string
	Brand      string
	Search     string
	ActiveOnly bool
}

// ProductRepository 商品仓储接口，同时承载库存台账契约
type ProductRepository interface {
	// Save 保存或更新商品
	Save(ctx context.Context, product *Product) error
	// Update 更新商品资料，不触碰 stock / total_sales 台账列，
	// 避免把读取后已被并发扣减的库存写回去
	Update(ctx context.Context, product *Product) error
	// SetStock 管理端直接设定可售库存，单列 UPDATE
	SetStock(ctx context.Context, id uint, stock int) error
	// GetByID 根据 ID 获取商品
	GetByID(ctx context.Context, id uint) (*Product, error)
	// GetBySlug 根据 slug 获取商品
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	// List 获取商品列表
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]*Product, int64, error)
	// DecrementStock 原子条件扣减库存并累加销量。
	// 库存不足时不产生任何副作用，返回 *InsufficientStockError。
	// 扣减是库存的权威守卫，调用方的预检查仅用于友好报错。
	DecrementStock(ctx context.Context, id uint, quantity int) error
	// RestoreStock 恢复库存并回退销量，仅供订单取消使用。
	// 本身不保证幂等，调用方必须保证每次扣减至多恢复一次。
	RestoreStock(ctx context.Context, id uint, quantity int) error
}
