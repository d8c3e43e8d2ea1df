package mysql

import (
	"context"
	"errors"

	"github.com/aegisgear/commerce/internal/user/domain"
	pkgdb "github.com/aegisgear/commerce/pkg/db"
	"gorm.io/gorm"
)

type userRepository struct{ db *gorm.DB }

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) conn(ctx context.Context) *gorm.DB {
	return pkgdb.FromContext(ctx, r.db)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.conn(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
