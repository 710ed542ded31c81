package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"voting-platform/internal/domain"
)

// MigrateDB 使用 AutoMigrate 创建或更新 users、candidates、votes 三张表。
// votes.user_id 上的唯一索引由 domain.Vote 的标签声明。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Candidate{}, &domain.Vote{}); err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Debug("Database migration completed successfully")
	return nil
}
