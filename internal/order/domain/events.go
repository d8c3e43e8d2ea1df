package domain

import (
	"context"
	"time"
)

// OrderEvent 订单领域事件载荷
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uint      `json:"user_id"`
	Total       string    `json:"total"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher 订单事件发布接口。
// 发布失败只记录日志，不影响请求结果。
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *Order)
	OrderCancelled(ctx context.Context, order *Order)
}

// NopPublisher 空实现，消息队列未启用时使用
type NopPublisher struct{}

func (NopPublisher) OrderCreated(ctx context.Context, order *Order)   {}
func (NopPublisher) OrderCancelled(ctx context.Context, order *Order) {}
