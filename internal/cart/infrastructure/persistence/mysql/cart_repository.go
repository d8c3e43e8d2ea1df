package mysql

import (
	"context"
	"errors"

	"github.com/aegisgear/commerce/internal/cart/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct{ db *gorm.DB }

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) conn(ctx context.Context) *gorm.DB {
	return pkgdb.FromContext(ctx, r.db)
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.conn(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateForUpdate 行锁读取，同一用户的并发修改在此串行化
func (r *cartRepository) GetOrCreateForUpdate(ctx context.Context, userID uint) (*domain.Cart, error) {
	conn := r.conn(ctx)

	var cart domain.Cart
	err := conn.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = domain.Cart{UserID: userID}
		if err := conn.Create(&cart).Error; err != nil {
			// 并发首建会撞 user_id 唯一索引，输家改走对赢家行的锁定读
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, err
			}
		}
		// 新建后重新加锁读取，避免与并发创建竞争
		if err := conn.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := conn.Where("cart_id = ?", cart.ID).Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	conn := r.conn(ctx)
	if err := conn.Omit("Items").Save(cart).Error; err != nil {
		return err
	}
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
		if err := conn.Save(&cart.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	return r.conn(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&domain.CartItem{}).Error
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	return r.conn(ctx).
		Where("cart_id = ?", cartID).
		Delete(&domain.CartItem{}).Error
}
