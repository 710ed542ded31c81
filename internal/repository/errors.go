package repository

import (
	"errors"
	"fmt"
)

// 通用的存储库错误
var (
	// ErrNotFound 表示请求的记录未找到
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry 表示尝试插入或更新的数据违反了唯一约束
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// 特定资源的错误，均可用 errors.Is(err, ErrNotFound) 判断
var (
	ErrUserNotFound      = fmt.Errorf("%w: user", ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("%w: candidate", ErrNotFound)
	ErrSessionNotFound   = fmt.Errorf("%w: session", ErrNotFound)

	// ErrAlreadyVoted 表示用户已有投票记录 (has_voted 已为 true 或 votes.user_id 冲突)
	ErrAlreadyVoted = errors.New("repository: user has already voted")
)
