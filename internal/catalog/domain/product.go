// Package domain 包含商品目录的领域模型与库存台账语义
package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品实体
// Stock 为可售库存，TotalSales 为累计销量，两者只允许通过
// DecrementStock / RestoreStock 的原子更新改变
type Product struct {
	gorm.Model
	// 商品标识（URL 友好）
	Slug string `gorm:"column:slug;type:varchar(191);uniqueIndex;not null" json:"slug"`
	// 商品名称
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// 商品描述
	Description string `gorm:"column:description;type:text" json:"description"`
	// 品牌
	Brand string `gorm:"column:brand;type:varchar(100);index" json:"brand"`
	// 分类
	Category string `gorm:"column:category;type:varchar(100);index" json:"category"`
	// 单价
	Price decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	// 可售库存
	Stock int `gorm:"column:stock;not null;default:0" json:"stock"`
	// 累计销量
	TotalSales int `gorm:"column:total_sales;not null;default:0" json:"total_sales"`
	// 是否上架
	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`
	// 图片地址列表
	Images []string `gorm:"column:images;serializer:json" json:"images"`
}

func (Product) TableName() string { return "products" }

// InStock 当前库存是否满足请求数量
func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}
