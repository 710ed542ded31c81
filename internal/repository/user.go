package repository

import (
	"context"

	"voting-platform/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByUsername 根据用户名查找用户，不存在时返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户，不存在时返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save 保存用户信息。ID 为零时创建，否则更新。
	// 用户名冲突时返回 ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error

	// List 按注册顺序返回全部用户。
	List(ctx context.Context) ([]domain.User, error)

	// Count 返回用户总数和其中管理员的数量。
	Count(ctx context.Context) (total int64, admins int64, err error)
}
