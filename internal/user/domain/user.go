// Package domain 包含用户账户模型
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrUserNotFound 用户不存在
var ErrUserNotFound = errors.New("user not found")

// User 用户账户
type User struct {
	gorm.Model
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Name  string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Role  string `gorm:"column:role;type:varchar(20);not null;default:'customer'" json:"role"`
}

func (User) TableName() string { return "users" }

// IsAdmin 是否具备管理端权限
func (u *User) IsAdmin() bool {
	return u.Role == "admin" || u.Role == "superadmin"
}

// UserRepository 用户仓储接口
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
