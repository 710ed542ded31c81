package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"voting-platform/internal/domain"
	"voting-platform/internal/metrics"
	"voting-platform/internal/repository"
)

// VoteService 负责投票与计票。
type VoteService struct {
	voteRepo      repository.VoteRepository
	candidateRepo repository.CandidateRepository
	metrics       *metrics.Metrics
}

// NewVoteService 创建 VoteService 实例
func NewVoteService(voteRepo repository.VoteRepository, candidateRepo repository.CandidateRepository, m *metrics.Metrics) *VoteService {
	if voteRepo == nil || candidateRepo == nil {
		panic("VoteRepository and CandidateRepository cannot be nil for VoteService")
	}
	return &VoteService{voteRepo: voteRepo, candidateRepo: candidateRepo, metrics: m}
}

// CastVote 为用户记录一票，返回更新后的候选人。
// 已投过票返回 ErrAlreadyVoted，候选人不存在返回 ErrCandidateNotFound，两种情况均不改变任何状态。
func (s *VoteService) CastVote(ctx context.Context, userID, candidateID uint) (*domain.Candidate, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "candidate_id": candidateID})

	candidate, err := s.voteRepo.CastVote(ctx, userID, candidateID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyVoted):
			logCtx.Info("Vote rejected: user has already voted")
			s.metrics.VoteRejected("already_voted")
			return nil, ErrAlreadyVoted
		case errors.Is(err, repository.ErrCandidateNotFound):
			logCtx.Info("Vote rejected: candidate not found")
			s.metrics.VoteRejected("candidate_not_found")
			return nil, ErrCandidateNotFound
		case errors.Is(err, repository.ErrUserNotFound):
			logCtx.Warn("Vote rejected: user not found")
			s.metrics.VoteRejected("user_not_found")
			return nil, ErrUserNotFound
		default:
			logCtx.WithError(err).Error("Failed to record vote")
			return nil, ErrInternalServer
		}
	}

	s.metrics.VoteCast()
	logCtx.WithField("votes", candidate.Votes).Info("Vote recorded")
	return candidate, nil
}

// GetResults 返回按票数降序排列的候选人 (同票按创建顺序) 以及总票数。
func (s *VoteService) GetResults(ctx context.Context) (*domain.Results, error) {
	candidates, err := s.candidateRepo.ListByVotes(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to load results")
		return nil, ErrInternalServer
	}
	results := &domain.Results{Candidates: candidates}
	for _, c := range candidates {
		results.TotalVotes += c.Votes
	}
	return results, nil
}

// HasVoted 返回用户投给的候选人 ID，未投票时 ok 为 false。
func (s *VoteService) HasVoted(ctx context.Context, userID uint) (candidateID uint, ok bool, err error) {
	vote, err := s.voteRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, false, nil
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load vote")
		return 0, false, ErrInternalServer
	}
	return vote.CandidateID, true, nil
}

// AuditTally 比对每个候选人的计数器与投票账本，以及已投票用户数与账本记录数。
// 返回所有不一致项，正常情况下为空。
func (s *VoteService) AuditTally(ctx context.Context) ([]domain.TallyDiscrepancy, error) {
	stats, err := s.voteRepo.LedgerStats(ctx)
	if err != nil {
		logrus.WithError(err).Error("Tally audit: failed to read ledger")
		return nil, ErrInternalServer
	}
	candidates, err := s.candidateRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Tally audit: failed to list candidates")
		return nil, ErrInternalServer
	}

	var discrepancies []domain.TallyDiscrepancy
	for _, c := range candidates {
		if ledger := stats.PerCandidate[c.ID]; ledger != c.Votes {
			discrepancies = append(discrepancies, domain.TallyDiscrepancy{
				CandidateID: c.ID,
				Name:        c.Name,
				Counter:     c.Votes,
				Ledger:      ledger,
			})
		}
	}
	if stats.VotedUsers != stats.VoteRows {
		discrepancies = append(discrepancies, domain.TallyDiscrepancy{
			Name:    "voters",
			Counter: stats.VotedUsers,
			Ledger:  stats.VoteRows,
		})
	}

	s.metrics.TallyDiscrepancies(len(discrepancies))
	return discrepancies, nil
}
