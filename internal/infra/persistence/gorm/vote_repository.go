package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

// GormVoteRepository 是 VoteRepository 接口的 GORM 实现
type GormVoteRepository struct {
	db *gorm.DB
}

// NewGormVoteRepository 创建 GormVoteRepository 实例
func NewGormVoteRepository(db *gorm.DB) *GormVoteRepository {
	if db == nil {
		panic("database connection cannot be nil for GormVoteRepository")
	}
	return &GormVoteRepository{db: db}
}

// CastVote 在单个事务内记录一票。
// has_voted 的条件更新保证并发请求中只有一个能通过，votes.user_id 的唯一索引兜底。
func (r *GormVoteRepository) CastVote(ctx context.Context, userID, candidateID uint) (*domain.Candidate, error) {
	var candidate domain.Candidate

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 条件翻转 has_voted (false -> true)
		res := tx.Model(&domain.User{}).
			Where("id = ? AND has_voted = ?", userID, false).
			Update("has_voted", true)
		if res.Error != nil {
			return fmt.Errorf("gorm: mark user %d as voted: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			// 区分用户不存在与已投票
			var count int64
			if err := tx.Model(&domain.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return fmt.Errorf("gorm: check user %d: %w", userID, err)
			}
			if count == 0 {
				return repository.ErrUserNotFound
			}
			return repository.ErrAlreadyVoted
		}

		// 2. 候选人必须存在，否则回滚上面的翻转
		if err := tx.Where("id = ?", candidateID).First(&candidate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrCandidateNotFound
			}
			return fmt.Errorf("gorm: find candidate %d: %w", candidateID, err)
		}

		// 3. 写入账本
		vote := domain.Vote{UserID: userID, CandidateID: candidateID}
		if err := tx.Create(&vote).Error; err != nil {
			if isDuplicateEntryError(err) {
				return repository.ErrAlreadyVoted
			}
			return fmt.Errorf("gorm: insert vote (user %d, candidate %d): %w", userID, candidateID, err)
		}

		// 4. 计数器加一，使用表达式避免读-改-写
		res = tx.Model(&domain.Candidate{}).
			Where("id = ?", candidateID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("gorm: increment votes for candidate %d: %w", candidateID, res.Error)
		}

		// 重新读取以返回最新计数
		if err := tx.First(&candidate, candidateID).Error; err != nil {
			return fmt.Errorf("gorm: reload candidate %d: %w", candidateID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// FindByUser 返回用户的投票记录
func (r *GormVoteRepository) FindByUser(ctx context.Context, userID uint) (*domain.Vote, error) {
	var vote domain.Vote
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find vote by user %d: %w", userID, err)
	}
	return &vote, nil
}

// LedgerStats 统计每个候选人的账本记录数、总记录数以及已投票用户数
func (r *GormVoteRepository) LedgerStats(ctx context.Context) (*repository.LedgerStats, error) {
	type candidateCount struct {
		CandidateID uint
		Total       int64
	}
	var rows []candidateCount
	stats := &repository.LedgerStats{PerCandidate: make(map[uint]int64)}

	db := r.db.WithContext(ctx)
	err := db.Model(&domain.Vote{}).
		Select("candidate_id, COUNT(*) AS total").
		Group("candidate_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: count votes per candidate: %w", err)
	}
	for _, row := range rows {
		stats.PerCandidate[row.CandidateID] = row.Total
		stats.VoteRows += row.Total
	}

	if err := db.Model(&domain.User{}).Where("has_voted = ?", true).Count(&stats.VotedUsers).Error; err != nil {
		return nil, fmt.Errorf("gorm: count voted users: %w", err)
	}
	return stats, nil
}
