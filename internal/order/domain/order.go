// Package domain 包含订单聚合与订单状态机
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus 订单履约状态
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus 解析订单状态枚举
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrInvalidOrderStatus
}

// PaymentStatus 支付状态，独立于履约状态
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// ParsePaymentStatus 解析支付状态枚举
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return PaymentStatus(s), nil
	}
	return "", ErrInvalidPaymentStatus
}

// PaymentMethod 支付方式，仅记录不处理
type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodCOD    PaymentMethod = "cash_on_delivery"
)

// ParsePaymentMethod 解析支付方式枚举
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodStripe, PaymentMethodPayPal, PaymentMethodCOD:
		return PaymentMethod(s), nil
	}
	return "", ErrInvalidPaymentMethod
}

// OrderItem 订单行，建单时从购物车行快照而来，此后不可变
type OrderItem struct {
	gorm.Model
	OrderID   uint            `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID uint            `gorm:"column:product_id;not null" json:"product_id"`
	Name      string          `gorm:"column:name;type:varchar(255)" json:"name"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
}

func (OrderItem) TableName() string { return "order_items" }

// ShippingAddress 收货地址快照，建单时从地址簿拷贝，不引用原记录
type ShippingAddress struct {
	FullName   string `gorm:"column:ship_full_name;type:varchar(100)" json:"full_name"`
	Phone      string `gorm:"column:ship_phone;type:varchar(30)" json:"phone"`
	Line1      string `gorm:"column:ship_line1;type:varchar(255)" json:"address_line1"`
	Line2      string `gorm:"column:ship_line2;type:varchar(255)" json:"address_line2,omitempty"`
	City       string `gorm:"column:ship_city;type:varchar(100)" json:"city"`
	State      string `gorm:"column:ship_state;type:varchar(100)" json:"state"`
	PostalCode string `gorm:"column:ship_postal_code;type:varchar(20)" json:"postal_code"`
	Country    string `gorm:"column:ship_country;type:varchar(100)" json:"country"`
}

// Order 订单聚合根。
// 金额在建单时一次性计算并落库，此后不再依据订单行重算。
type Order struct {
	gorm.Model
	// 订单号，形如 AG-20250115-0007
	OrderNumber string `gorm:"column:order_number;type:varchar(32);uniqueIndex;not null" json:"order_number"`
	// 下单用户
	UserID uint `gorm:"column:user_id;index;not null" json:"user_id"`
	// 订单行
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	// 收货地址快照
	ShippingAddress ShippingAddress `gorm:"embedded" json:"shipping_address"`
	// 商品小计
	Subtotal decimal.Decimal `gorm:"column:subtotal;type:decimal(12,2);not null" json:"subtotal"`
	// 运费
	ShippingFee decimal.Decimal `gorm:"column:shipping_fee;type:decimal(12,2);not null" json:"shipping_fee"`
	// 税费
	Tax decimal.Decimal `gorm:"column:tax;type:decimal(12,2);not null" json:"tax"`
	// 优惠金额
	Discount decimal.Decimal `gorm:"column:discount;type:decimal(12,2);not null;default:0" json:"discount"`
	// 应付总额
	Total decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	// 支付方式
	PaymentMethod PaymentMethod `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`
	// 支付状态
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);index;not null" json:"payment_status"`
	// 履约状态
	Status OrderStatus `gorm:"column:order_status;type:varchar(20);index;not null" json:"order_status"`
	// 承运商
	Courier string `gorm:"column:courier;type:varchar(100)" json:"courier,omitempty"`
	// 运单号
	TrackingNumber string `gorm:"column:tracking_number;type:varchar(100)" json:"tracking_number,omitempty"`
	// 发货时间
	ShippedAt *time.Time `gorm:"column:shipped_at" json:"shipped_at,omitempty"`
	// 签收时间
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
}

func (Order) TableName() string { return "orders" }

// CanBeCancelled 仅 pending / confirmed 状态允许取消
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// ApplyStatus 设置履约状态并维护发货/签收时间戳。
// 除取消外的状态迁移不做顺序约束，管理端允许任意改写。
func (o *Order) ApplyStatus(status OrderStatus, now time.Time) {
	o.Status = status
	switch status {
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			t := now
			o.ShippedAt = &t
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			t := now
			o.DeliveredAt = &t
		}
	}
}

// FormatOrderNumber 生成订单号：前缀-日期-当日序号（零填充 4 位）
func FormatOrderNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), seq)
}
