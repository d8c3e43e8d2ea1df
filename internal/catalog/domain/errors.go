package domain

import (
	"errors"
	"fmt"
)

// 商品相关业务错误
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductUnavailable 商品已下架
	ErrProductUnavailable = errors.New("product is not available")
	// ErrInsufficientStock 库存不足哨兵错误，用于 errors.Is 匹配
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError 库存不足，携带商品与可售数量信息
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s is out of stock or insufficient quantity (requested %d, available %d)", e.Name, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %d (requested %d, available %d)", e.ProductID, e.Requested, e.Available)
}

// Is 使 errors.Is(err, ErrInsufficientStock) 成立
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
