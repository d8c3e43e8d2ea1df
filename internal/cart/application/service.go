// Package application 包含购物车的应用服务
package application

import (
	"context"
	"errors"

	catalogdomain "github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/internal/cart/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity 数量不合法
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// LineView 购物车行视图，附带商品摘要
type LineView struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartSnapshot 购物车快照响应
type CartSnapshot struct {
	Items      []LineView      `json:"items"`
	ItemsCount int             `json:"itemsCount"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"total"`
}

// CartService 购物车应用服务
type CartService struct {
	carts    domain.CartRepository
	products catalogdomain.ProductRepository
	tx       pkgdb.TxManager
}

// NewCartService 创建购物车应用服务实例
func NewCartService(carts domain.CartRepository, products catalogdomain.ProductRepository, tx pkgdb.TxManager) *CartService {
	return &CartService{carts: carts, products: products, tx: tx}
}

// GetCart 获取购物车快照，购物车不存在时返回空快照
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartSnapshot, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return emptySnapshot(), nil
		}
		return nil, err
	}
	return s.snapshot(ctx, cart)
}

// AddItem 添加商品到购物车。
// 同一商品的已有行会累加数量并刷新单价快照（多次加购之间的价格漂移按当前价收敛）。
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartSnapshot, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var cart *domain.Cart
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		product, err := s.products.GetByID(txCtx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return catalogdomain.ErrProductUnavailable
		}
		if !product.InStock(quantity) {
			return &catalogdomain.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: quantity,
				Available: product.Stock,
			}
		}

		cart, err = s.carts.GetOrCreateForUpdate(txCtx, userID)
		if err != nil {
			return err
		}

		cart.Upsert(productID, quantity, product.Price)
		return s.carts.Save(txCtx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, cart)
}

// UpdateItem 修改购物车行数量并刷新单价快照
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*CartSnapshot, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var cart *domain.Cart
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		// 行锁定读，避免与并发加购互相覆盖
		var err error
		cart, err = s.carts.GetOrCreateForUpdate(txCtx, userID)
		if err != nil {
			return err
		}

		item := cart.FindItem(itemID)
		if item == nil {
			return domain.ErrItemNotFound
		}

		product, err := s.products.GetByID(txCtx, item.ProductID)
		if err != nil {
			return err
		}
		if !product.InStock(quantity) {
			return &catalogdomain.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: quantity,
				Available: product.Stock,
			}
		}

		item.Quantity = quantity
		item.Price = product.Price
		return s.carts.Save(txCtx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, cart)
}

// RemoveItem 删除购物车行，行或购物车不存在时视为成功
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*CartSnapshot, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return emptySnapshot(), nil
		}
		return nil, err
	}

	if err := s.carts.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}

	cart, err = s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, cart)
}

// Clear 清空购物车，购物车不存在时视为成功
func (s *CartService) Clear(ctx context.Context, userID uint) (*CartSnapshot, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return emptySnapshot(), nil
		}
		return nil, err
	}

	if err := s.carts.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return emptySnapshot(), nil
}

// snapshot 构建购物车快照，附带商品摘要信息
func (s *CartService) snapshot(ctx context.Context, cart *domain.Cart) (*CartSnapshot, error) {
	views := make([]LineView, 0, len(cart.Items))
	for _, item := range cart.Items {
		view := LineView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if product, err := s.products.GetByID(ctx, item.ProductID); err == nil {
			view.Name = product.Name
			view.Slug = product.Slug
			if len(product.Images) > 0 {
				view.Image = product.Images[0]
			}
		}
		views = append(views, view)
	}

	subtotal := cart.Subtotal()
	return &CartSnapshot{
		Items:      views,
		ItemsCount: len(views),
		Subtotal:   subtotal,
		Total:      subtotal,
	}, nil
}

func emptySnapshot() *CartSnapshot {
	return &CartSnapshot{
		Items:      []LineView{},
		ItemsCount: 0,
		Subtotal:   decimal.Zero,
		Total:      decimal.Zero,
	}
}
