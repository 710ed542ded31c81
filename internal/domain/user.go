// Package domain 定义了投票系统的核心数据结构 (数据库模型)。
package domain

import "time"

// User 表示一个注册用户 (选民或管理员)。
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(80);uniqueIndex:idx_username;not null"`
	Password  string    `gorm:"type:varchar(255);not null"` // bcrypt 哈希，永不返回给调用者
	HasVoted  bool      `gorm:"not null;default:false"`     // 只会从 false 变为 true 一次
	IsAdmin   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Principal 是会话中携带的已认证身份。
type Principal struct {
	UserID   uint   `json:"user_id" mapstructure:"user_id"`
	Username string `json:"username" mapstructure:"username"`
	IsAdmin  bool   `json:"is_admin" mapstructure:"is_admin"`
}

// PrincipalOf 从用户记录构造会话身份。
func PrincipalOf(u *User) *Principal {
	return &Principal{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}
