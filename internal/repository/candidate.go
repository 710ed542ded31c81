package repository

import (
	"context"

	"voting-platform/internal/domain"
)

// CandidateRepository 定义了候选人的存储和检索操作。
type CandidateRepository interface {
	// FindByID 不存在时返回 ErrCandidateNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Candidate, error)

	// Create 插入新候选人，Votes 总是从 0 开始。
	Create(ctx context.Context, candidate *domain.Candidate) error

	// List 按创建顺序返回全部候选人。
	List(ctx context.Context) ([]domain.Candidate, error)

	// ListByVotes 按票数降序返回全部候选人，票数相同时按 ID 升序。
	ListByVotes(ctx context.Context) ([]domain.Candidate, error)

	Count(ctx context.Context) (int64, error)
}
