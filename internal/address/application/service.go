// Package application 收货地址应用服务
package application

import (
	"context"

	"github.com/aegisgear/commerce/internal/address/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
)

// AddressCommand 新增或更新地址的参数
type AddressCommand struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// AddressService 地址应用服务
type AddressService struct {
	addresses domain.AddressRepository
	tx        pkgdb.TxManager
}

// NewAddressService 创建地址应用服务实例
func NewAddressService(addresses domain.AddressRepository, tx pkgdb.TxManager) *AddressService {
	return &AddressService{addresses: addresses, tx: tx}
}

// Create 新增地址
func (s *AddressService) Create(ctx context.Context, userID uint, cmd AddressCommand) (*domain.Address, error) {
	address := &domain.Address{
		UserID:     userID,
		FullName:   cmd.FullName,
		Phone:      cmd.Phone,
		Line1:      cmd.Line1,
		Line2:      cmd.Line2,
		City:       cmd.City,
		State:      cmd.State,
		PostalCode: cmd.PostalCode,
		Country:    cmd.Country,
		IsDefault:  cmd.IsDefault,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.addresses.Save(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 更新用户自己的地址
func (s *AddressService) Update(ctx context.Context, id, userID uint, cmd AddressCommand) (*domain.Address, error) {
	var address *domain.Address
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.addresses.GetByIDForUser(ctx, id, userID)
		if err != nil {
			return err
		}
		existing.FullName = cmd.FullName
		existing.Phone = cmd.Phone
		existing.Line1 = cmd.Line1
		existing.Line2 = cmd.Line2
		existing.City = cmd.City
		existing.State = cmd.State
		existing.PostalCode = cmd.PostalCode
		existing.Country = cmd.Country
		existing.IsDefault = cmd.IsDefault
		if err := s.addresses.Save(ctx, existing); err != nil {
			return err
		}
		address = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// List 用户全部地址，默认地址排在前面
func (s *AddressService) List(ctx context.Context, userID uint) ([]*domain.Address, error) {
	return s.addresses.ListByUser(ctx, userID)
}

// Get 获取用户自己的地址
func (s *AddressService) Get(ctx context.Context, id, userID uint) (*domain.Address, error) {
	return s.addresses.GetByIDForUser(ctx, id, userID)
}

// Delete 删除用户自己的地址
func (s *AddressService) Delete(ctx context.Context, id, userID uint) error {
	return s.addresses.Delete(ctx, id, userID)
}
