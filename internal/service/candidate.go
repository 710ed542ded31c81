package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

// CandidateService 负责候选人管理以及管理员视图。
type CandidateService struct {
	candidateRepo repository.CandidateRepository
	userRepo      repository.UserRepository
}

func NewCandidateService(candidateRepo repository.CandidateRepository, userRepo repository.UserRepository) *CandidateService {
	if candidateRepo == nil || userRepo == nil {
		panic("CandidateRepository and UserRepository cannot be nil for CandidateService")
	}
	return &CandidateService{candidateRepo: candidateRepo, userRepo: userRepo}
}

func requireAdmin(principal *domain.Principal) error {
	if principal == nil || principal.UserID == 0 {
		return ErrNotAuthenticated
	}
	if !principal.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// AddCandidate 由管理员创建候选人，票数从 0 开始。
func (s *CandidateService) AddCandidate(ctx context.Context, principal *domain.Principal, name, party, description string) (*domain.Candidate, error) {
	logCtx := logrus.WithField("name", name)
	if err := requireAdmin(principal); err != nil {
		logCtx.WithError(err).Warn("Add candidate rejected")
		return nil, err
	}
	logCtx = logCtx.WithField("admin_id", principal.UserID)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: candidate name is required", ErrInvalidInput)
	}

	candidate := &domain.Candidate{
		Name:        name,
		Party:       strings.TrimSpace(party),
		Description: strings.TrimSpace(description),
	}
	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		logCtx.WithError(err).Error("Failed to create candidate")
		return nil, ErrInternalServer
	}

	logCtx.WithField("candidate_id", candidate.ID).Info("Candidate added")
	return candidate, nil
}

// ListCandidates 按创建顺序返回全部候选人
func (s *CandidateService) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	candidates, err := s.candidateRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list candidates")
		return nil, ErrInternalServer
	}
	return candidates, nil
}

// ListUsers 返回全部用户 (已清除密码哈希)，仅管理员可用
func (s *CandidateService) ListUsers(ctx context.Context, principal *domain.Principal) ([]domain.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, ErrInternalServer
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}
