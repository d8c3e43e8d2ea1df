package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/aegisgear/commerce/internal/order/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"gorm.io/gorm"
)

// orderCounter 按日订单号计数器
type orderCounter struct {
	Day string `gorm:"column:day;type:char(8);primaryKey"`
	Seq int64  `gorm:"column:seq;not null"`
}

func (orderCounter) TableName() string { return "order_counters" }

// CounterModel 暴露给 AutoMigrate 的计数器模型
func CounterModel() any { return &orderCounter{} }

type orderRepository struct{ db *gorm.DB }

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) conn(ctx context.Context) *gorm.DB {
	return pkgdb.FromContext(ctx, r.db)
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.conn(ctx).Create(order).Error
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.conn(ctx).Omit("Items").Save(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.conn(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*domain.Order, int64, error) {
	var orders []*domain.Order
	var total int64

	q := r.conn(ctx).Model(&domain.Order{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) List(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]*domain.Order, int64, error) {
	var orders []*domain.Order
	var total int64

	q := r.conn(ctx).Model(&domain.Order{})
	if status != "" {
		q = q.Where("order_status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// NextOrderNumber 以 LAST_INSERT_ID 技巧完成原子的自增并读回，
// 并发结算下不会发出重复序号。依赖调用方处于事务中（同一连接）。
func (r *orderRepository) NextOrderNumber(ctx context.Context, prefix string, day time.Time) (string, error) {
	conn := r.conn(ctx)
	dayKey := day.Format("20060102")

	err := conn.Exec(
		"INSERT INTO order_counters (day, seq) VALUES (?, LAST_INSERT_ID(1)) "+
			"ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)",
		dayKey,
	).Error
	if err != nil {
		return "", err
	}

	var seq int64
	if err := conn.Raw("SELECT LAST_INSERT_ID()").Scan(&seq).Error; err != nil {
		return "", err
	}

	return domain.FormatOrderNumber(prefix, day, seq), nil
}

// MarkCancelled 条件更新完成取消迁移，WHERE 子句即状态机守卫
func (r *orderRepository) MarkCancelled(ctx context.Context, orderID uint) (bool, error) {
	res := r.conn(ctx).Model(&domain.Order{}).
		Where("id = ? AND order_status IN ?", orderID,
			[]domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusConfirmed}).
		Updates(map[string]any{
			"order_status":   domain.OrderStatusCancelled,
			"payment_status": domain.PaymentStatusRefunded,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
