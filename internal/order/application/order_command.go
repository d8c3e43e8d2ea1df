package application

import (
	"context"
	"time"

	catalogdomain "github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/internal/order/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"github.com/aegisgear/commerce/pkg/logger"
)

// OrderCommandService 处理订单状态相关的命令操作
type OrderCommandService struct {
	orders    domain.OrderRepository
	products  catalogdomain.ProductRepository
	tx        pkgdb.TxManager
	publisher domain.EventPublisher
}

// NewOrderCommandService 创建订单命令服务实例
func NewOrderCommandService(
	orders domain.OrderRepository,
	products catalogdomain.ProductRepository,
	tx pkgdb.TxManager,
	publisher domain.EventPublisher,
) *OrderCommandService {
	return &OrderCommandService{orders: orders, products: products, tx: tx, publisher: publisher}
}

// Cancel 取消订单并恢复库存。
// 条件状态迁移是唯一的恢复守卫：迁移没有发生就绝不触碰库存，
// 因此并发的第二次取消只会得到 ErrInvalidTransition。
func (s *OrderCommandService) Cancel(ctx context.Context, orderID, userID uint) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orders.GetByIDForUser(txCtx, orderID, userID)
		if err != nil {
			return err
		}

		transitioned, err := s.orders.MarkCancelled(txCtx, order.ID)
		if err != nil {
			return err
		}
		if !transitioned {
			return domain.ErrInvalidTransition
		}

		for _, item := range order.Items {
			if err := s.products.RestoreStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = domain.OrderStatusCancelled
		order.PaymentStatus = domain.PaymentStatusRefunded
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Order cancelled", "order_number", order.OrderNumber, "user_id", userID)
	s.publisher.OrderCancelled(ctx, order)

	return order, nil
}

// UpdateStatus 管理端更新履约状态。
// 除枚举校验外不限制迁移方向（保留原系统行为），
// shipped / delivered 首次到达时记录对应时间戳。
func (s *OrderCommandService) UpdateStatus(ctx context.Context, orderID uint, status string) (*domain.Order, error) {
	target, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.ApplyStatus(target, time.Now())
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdatePaymentStatus 管理端更新支付状态，仅做枚举校验
func (s *OrderCommandService) UpdatePaymentStatus(ctx context.Context, orderID uint, status string) (*domain.Order, error) {
	target, err := domain.ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = target
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
