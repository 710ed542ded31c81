package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"voting-platform/internal/domain"
	"voting-platform/internal/metrics"
	"voting-platform/internal/repository"
)

// AuthService 负责注册、登录以及读取当前用户。
type AuthService struct {
	userRepo repository.UserRepository
	metrics  *metrics.Metrics
}

// NewAuthService 创建 AuthService 实例。m 可以为 nil。
func NewAuthService(userRepo repository.UserRepository, m *metrics.Metrics) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	return &AuthService{userRepo: userRepo, metrics: m}
}

// Register 创建新的普通用户 (has_voted=false, is_admin=false)。
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	logCtx := logrus.WithField("username", username)

	// 1. 基本验证
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	// 2. 用户名预检查，唯一索引在并发时兜底
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		logCtx.Warn("Registration failed: Username already exists")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		logCtx.WithError(err).Error("Database error during username lookup")
		return nil, ErrInternalServer
	}

	// 3. 哈希密码
	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	// 4. 保存用户
	user := &domain.User{Username: username, Password: hashedPassword}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: Username already exists (repo error)")
			return nil, ErrUsernameTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	s.metrics.Registered()
	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // 清除密码哈希再返回
	return user, nil
}

// Login 校验用户名和密码，成功时返回用于建立会话的身份。
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Principal, error) {
	logCtx := logrus.WithField("username", username)

	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logCtx.Warn("Login attempt failed: User not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: Error finding user")
		}
		s.metrics.Login(false)
		return nil, ErrAuthenticationFailed // 对客户端统一返回认证失败
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: Invalid password")
		s.metrics.Login(false)
		return nil, ErrAuthenticationFailed
	}

	s.metrics.Login(true)
	logCtx.WithFields(logrus.Fields{"user_id": user.ID, "is_admin": user.IsAdmin}).Info("User logged in successfully")
	return domain.PrincipalOf(user), nil
}

// CurrentUser 读取会话对应的最新用户记录 (has_voted 以数据库为准)。
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load current user")
		return nil, ErrInternalServer
	}
	user.Password = ""
	return user, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 以常数时间比较密码与存储的哈希
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
