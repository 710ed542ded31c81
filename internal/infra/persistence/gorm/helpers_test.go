package gormpersistence_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"voting-platform/internal/domain"
	"voting-platform/internal/infra/setup"
)

// newTestDB 为每个测试打开一个独立的内存 SQLite 数据库并完成迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := setup.InitDB(fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString()), nil)
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createCandidate(t *testing.T, db *gorm.DB, name string, votes int64) *domain.Candidate {
	t.Helper()
	c := &domain.Candidate{Name: name}
	require.NoError(t, db.Create(c).Error)
	if votes > 0 {
		require.NoError(t, db.Model(c).Update("votes", votes).Error)
		c.Votes = votes
	}
	return c
}
