package mysql

import (
	"context"
	"errors"

	"github.com/aegisgear/commerce/internal/address/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"gorm.io/gorm"
)

type addressRepository struct{ db *gorm.DB }

// NewAddressRepository 创建地址仓储实例
func NewAddressRepository(db *gorm.DB) domain.AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) conn(ctx context.Context) *gorm.DB {
	return pkgdb.FromContext(ctx, r.db)
}

// Save 保存地址，设为默认时会先清掉该用户其余默认标记
func (r *addressRepository) Save(ctx context.Context, address *domain.Address) error {
	if address.IsDefault {
		err := r.conn(ctx).Model(&domain.Address{}).
			Where("user_id = ? AND id <> ?", address.UserID, address.ID).
			Update("is_default", false).Error
		if err != nil {
			return err
		}
	}
	return r.conn(ctx).Save(address).Error
}

func (r *addressRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*domain.Address, error) {
	var a domain.Address
	err := r.conn(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Address, error) {
	var addresses []*domain.Address
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *addressRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.conn(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}
