// Package domain 包含购物车聚合
package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart 购物车，每个用户至多一个
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string { return "carts" }

// CartItem 购物车行，同一商品在一个购物车内只占一行。
// Price 为加入/更新时刻的单价快照，结算按此价格计费。
type CartItem struct {
	gorm.Model
	CartID    uint            `gorm:"column:cart_id;index;not null" json:"cart_id"`
	ProductID uint            `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
}

func (CartItem) TableName() string { return "cart_items" }

// Subtotal 各行单价×数量求和
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Upsert 添加商品：已存在则累加数量，单价统一刷新为当前价
func (c *Cart) Upsert(productID uint, quantity int, price decimal.Decimal) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].Price = price
			return
		}
	}
	c.Items = append(c.Items, CartItem{CartID: c.ID, ProductID: productID, Quantity: quantity, Price: price})
}

// FindItem 根据行 ID 查找购物车行
func (c *Cart) FindItem(itemID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}
