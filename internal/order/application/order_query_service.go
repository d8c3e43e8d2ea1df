package application

import (
	"context"

	"github.com/aegisgear/commerce/internal/order/domain"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	orders domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(orders domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// GetForUser 获取用户自己的订单详情
func (s *OrderQueryService) GetForUser(ctx context.Context, orderID, userID uint) (*domain.Order, error) {
	return s.orders.GetByIDForUser(ctx, orderID, userID)
}

// ListForUser 获取用户订单列表
func (s *OrderQueryService) ListForUser(ctx context.Context, userID uint, page, limit int) ([]*domain.Order, int64, error) {
	offset := (page - 1) * limit
	return s.orders.ListByUser(ctx, userID, offset, limit)
}

// ListAll 管理端订单列表，status 为空表示不过滤
func (s *OrderQueryService) ListAll(ctx context.Context, status string, page, limit int) ([]*domain.Order, int64, error) {
	var filter domain.OrderStatus
	if status != "" {
		parsed, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, 0, err
		}
		filter = parsed
	}
	offset := (page - 1) * limit
	return s.orders.List(ctx, filter, offset, limit)
}
