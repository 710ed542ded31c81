package repository

import (
	"context"

	"voting-platform/internal/domain"
)

// LedgerStats 是投票账本的统计快照，用于核对计数器。
type LedgerStats struct {
	PerCandidate map[uint]int64 // candidate_id -> votes 表中的记录数
	VoteRows     int64
	VotedUsers   int64 // has_voted = true 的用户数
}

// VoteRepository 定义了投票账本的操作。
type VoteRepository interface {
	// CastVote 在同一个事务中完成：翻转用户的 has_voted、插入 Vote 记录、
	// 候选人计数器加一。任意一步失败则全部回滚。
	// 返回更新后的候选人。
	// 错误：ErrUserNotFound、ErrCandidateNotFound、ErrAlreadyVoted。
	CastVote(ctx context.Context, userID, candidateID uint) (*domain.Candidate, error)

	// FindByUser 返回用户的投票记录，未投票时返回 ErrNotFound。
	FindByUser(ctx context.Context, userID uint) (*domain.Vote, error)

	// LedgerStats 统计账本，供计票核对使用。
	LedgerStats(ctx context.Context) (*LedgerStats, error)
}
