// Package messaging 订单事件的 Kafka 发布实现
package messaging

import (
	"context"
	"time"

	"github.com/aegisgear/commerce/internal/order/domain"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/aegisgear/commerce/pkg/mq"
)

// KafkaPublisher 将订单事件发布到 Kafka。
// 发布是尽力而为的：失败只记日志，不回滚业务。
type KafkaPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaPublisher 创建 Kafka 订单事件发布器
func NewKafkaPublisher(producer *mq.KafkaProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := domain.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Total:       order.Total.String(),
		OccurredAt:  time.Now(),
	}
	if err := p.producer.PublishJSON(ctx, p.topic, order.OrderNumber, event); err != nil {
		logger.Error(ctx, "Failed to publish order event",
			"type", eventType,
			"order_number", order.OrderNumber,
			"error", err,
		)
	}
}

// OrderCreated 发布订单创建事件
func (p *KafkaPublisher) OrderCreated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, "order.created", order)
}

// OrderCancelled 发布订单取消事件
func (p *KafkaPublisher) OrderCancelled(ctx context.Context, order *domain.Order) {
	p.publish(ctx, "order.cancelled", order)
}
