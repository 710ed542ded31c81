package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

// GormUserRepository 是 UserRepository 接口的 GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository 创建 GormUserRepository 实例
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{db: db}
}

// findUser 按条件取一个用户，未命中统一映射为 ErrUserNotFound。
// what 只用于错误信息，例如 "username 'alice'"。
func (r *GormUserRepository) findUser(ctx context.Context, what string, query string, args ...interface{}) (*domain.User, error) {
	user := new(domain.User)
	switch err := r.db.WithContext(ctx).Where(query, args...).Take(user).Error; {
	case err == nil:
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, repository.ErrUserNotFound
	default:
		return nil, fmt.Errorf("gorm: find user by %s: %w", what, err)
	}
}

// FindByUsername 登录与注册查重使用，用户名区分大小写
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUser(ctx, fmt.Sprintf("username '%s'", username), "username = ?", username)
}

// FindByID 会话中的 user_id 对应的用户，面板页与管理页使用
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findUser(ctx, fmt.Sprintf("id %d", id), "id = ?", id)
}

// Save 创建或更新用户。GORM 根据主键是否为零值决定 INSERT 还是 UPDATE。
func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save user (id: %d, username: %s): %w", user.ID, user.Username, err)
	}
	return nil
}

// List 按 ID 升序返回全部用户
func (r *GormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("gorm: list users: %w", err)
	}
	return users, nil
}

// Count 返回用户总数与管理员数量
func (r *GormUserRepository) Count(ctx context.Context) (int64, int64, error) {
	var total, admins int64
	db := r.db.WithContext(ctx).Model(&domain.User{})
	if err := db.Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("gorm: count users: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("is_admin = ?", true).Count(&admins).Error; err != nil {
		return 0, 0, fmt.Errorf("gorm: count admins: %w", err)
	}
	return total, admins, nil
}
