// Package domain 包含收货地址模型
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrAddressNotFound 地址不存在
var ErrAddressNotFound = errors.New("address not found")

// Address 收货地址
type Address struct {
	gorm.Model
	UserID     uint   `gorm:"column:user_id;index;not null" json:"user_id"`
	FullName   string `gorm:"column:full_name;type:varchar(100);not null" json:"full_name"`
	Phone      string `gorm:"column:phone;type:varchar(30)" json:"phone"`
	Line1      string `gorm:"column:address_line1;type:varchar(255);not null" json:"address_line1"`
	Line2      string `gorm:"column:address_line2;type:varchar(255)" json:"address_line2,omitempty"`
	City       string `gorm:"column:city;type:varchar(100)" json:"city"`
	State      string `gorm:"column:state;type:varchar(100)" json:"state"`
	PostalCode string `gorm:"column:postal_code;type:varchar(20)" json:"postal_code"`
	Country    string `gorm:"column:country;type:varchar(100)" json:"country"`
	IsDefault  bool   `gorm:"column:is_default;not null;default:false" json:"is_default"`
}

func (Address) TableName() string { return "addresses" }

// AddressRepository 地址仓储接口
type AddressRepository interface {
	// Save 保存或更新地址
	Save(ctx context.Context, address *Address) error
	// GetByIDForUser 获取用户自己的地址，越权视为不存在
	GetByIDForUser(ctx context.Context, id, userID uint) (*Address, error)
	// ListByUser 获取用户全部地址
	ListByUser(ctx context.Context, userID uint) ([]*Address, error)
	// Delete 删除用户自己的地址
	Delete(ctx context.Context, id, userID uint) error
}
