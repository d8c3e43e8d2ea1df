package domain

import (
	"context"
	"errors"
)

// 购物车相关业务错误
var (
	// ErrCartNotFound 购物车不存在
	ErrCartNotFound = errors.New("cart not found")
	// ErrItemNotFound 购物车行不存在
	ErrItemNotFound = errors.New("item not found in cart")
)

// CartRepository 购物车仓储接口
type CartRepository interface {
	// GetByUserID 获取用户购物车，不存在时返回 ErrCartNotFound
	GetByUserID(ctx context.Context, userID uint) (*Cart, error)
	// GetOrCreateForUpdate 获取或创建用户购物车并加行锁。
	// 必须在事务内调用，用于串行化同一购物车的并发修改。
	GetOrCreateForUpdate(ctx context.Context, userID uint) (*Cart, error)
	// Save 保存购物车及其行
	Save(ctx context.Context, cart *Cart) error
	// DeleteItem 删除购物车行，行不存在时为 no-op
	DeleteItem(ctx context.Context, cartID, itemID uint) error
	// ClearItems 清空购物车全部行
	ClearItems(ctx context.Context, cartID uint) error
}
