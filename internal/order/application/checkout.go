// Package application 包含订单的应用服务：结算编排、命令与查询
package application

import (
	"context"
	"time"

	addressdomain "github.com/aegisgear/commerce/internal/address/domain"
	catalogdomain "github.com/aegisgear/commerce/internal/catalog/domain"
	cartdomain "github.com/aegisgear/commerce/internal/cart/domain"
	"github.com/aegisgear/commerce/internal/order/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"github.com/aegisgear/commerce/pkg/logger"
	"github.com/shopspring/decimal"
)

// PricingConfig 结算定价参数
type PricingConfig struct {
	// 固定运费
	ShippingFee decimal.Decimal
	// 税率，如 0.12
	TaxRate decimal.Decimal
	// 订单号前缀
	OrderNumberPrefix string
}

// CheckoutCommand 结算命令
type CheckoutCommand struct {
	UserID            uint
	ShippingAddressID uint
	PaymentMethod     string
}

// CheckoutService 结算编排服务。
// 在单个数据库事务内完成库存扣减、订单落库与清空购物车，
// 任一步失败则整体回滚，不会留下部分扣减的中间状态。
type CheckoutService struct {
	orders    domain.OrderRepository
	carts     cartdomain.CartRepository
	products  catalogdomain.ProductRepository
	addresses addressdomain.AddressRepository
	tx        pkgdb.TxManager
	publisher domain.EventPublisher
	pricing   PricingConfig
}

// NewCheckoutService 创建结算编排服务实例
func NewCheckoutService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	products catalogdomain.ProductRepository,
	addresses addressdomain.AddressRepository,
	tx pkgdb.TxManager,
	publisher domain.EventPublisher,
	pricing PricingConfig,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		carts:     carts,
		products:  products,
		addresses: addresses,
		tx:        tx,
		publisher: publisher,
		pricing:   pricing,
	}
}

// Checkout 将购物车转换为订单。
// 计费使用购物车行上存储的单价快照，不在结算时重新取价。
func (s *CheckoutService) Checkout(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	if cmd.ShippingAddressID == 0 || cmd.PaymentMethod == "" {
		return nil, domain.ErrMissingCheckoutFields
	}
	method, err := domain.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		// 行锁购物车，串行化同一用户的并发结算
		cart, err := s.carts.GetOrCreateForUpdate(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		address, err := s.addresses.GetByIDForUser(txCtx, cmd.ShippingAddressID, cmd.UserID)
		if err != nil {
			if err == addressdomain.ErrAddressNotFound {
				return domain.ErrAddressNotFound
			}
			return err
		}

		// 权威的库存守卫是下方的条件扣减；此处逐行预检仅为了
		// 在报错中带上商品名称与可售数量
		items := make([]domain.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			product, err := s.products.GetByID(txCtx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.InStock(line.Quantity) {
				return &catalogdomain.InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: line.Quantity,
					Available: product.Stock,
				}
			}
			items = append(items, domain.OrderItem{
				ProductID: line.ProductID,
				Name:      product.Name,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}

		subtotal := cart.Subtotal()
		tax := subtotal.Mul(s.pricing.TaxRate).Round(2)
		total := subtotal.Add(s.pricing.ShippingFee).Add(tax)

		number, err := s.orders.NextOrderNumber(txCtx, s.pricing.OrderNumberPrefix, time.Now())
		if err != nil {
			return err
		}

		order = &domain.Order{
			OrderNumber: number,
			UserID:      cmd.UserID,
			Items:       items,
			ShippingAddress: domain.ShippingAddress{
				FullName:   address.FullName,
				Phone:      address.Phone,
				Line1:      address.Line1,
				Line2:      address.Line2,
				City:       address.City,
				State:      address.State,
				PostalCode: address.PostalCode,
				Country:    address.Country,
			},
			Subtotal:      subtotal,
			ShippingFee:   s.pricing.ShippingFee,
			Tax:           tax,
			Discount:      decimal.Zero,
			Total:         total,
			PaymentMethod: method,
			PaymentStatus: domain.PaymentStatusPending,
			Status:        domain.OrderStatusPending,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		// 条件扣减：stock >= quantity 不满足时整个事务回滚
		for _, item := range order.Items {
			if err := s.products.DecrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return s.carts.ClearItems(txCtx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Order created",
		"order_number", order.OrderNumber,
		"user_id", order.UserID,
		"total", order.Total,
	)
	s.publisher.OrderCreated(ctx, order)

	return order, nil
}
