package domain

import (
	"context"
	"time"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 持久化新订单及其订单行
	Create(ctx context.Context, order *Order) error
	// Save 保存订单状态变更
	Save(ctx context.Context, order *Order) error
	// GetByID 根据 ID 获取订单
	GetByID(ctx context.Context, id uint) (*Order, error)
	// GetByIDForUser 获取用户自己的订单，越权视为不存在
	GetByIDForUser(ctx context.Context, id, userID uint) (*Order, error)
	// ListByUser 获取用户订单列表，按创建时间倒序
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*Order, int64, error)
	// List 管理端订单列表，可按履约状态过滤
	List(ctx context.Context, status OrderStatus, offset, limit int) ([]*Order, int64, error)
	// NextOrderNumber 通过按日计数器原子地签发订单号，须在结算事务内调用
	NextOrderNumber(ctx context.Context, prefix string, day time.Time) (string, error)
	// MarkCancelled 条件更新：仅当订单处于可取消状态时迁移到
	// cancelled/refunded，返回是否发生了迁移。取消的库存恢复
	// 必须以该返回值为守卫，保证每个订单至多恢复一次。
	MarkCancelled(ctx context.Context, orderID uint) (bool, error)
}
