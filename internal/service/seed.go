package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"voting-platform/internal/domain"
	"voting-platform/internal/fixtures"
	"voting-platform/internal/repository"
)

// SeedReport 汇总一次初始化的结果
type SeedReport struct {
	UsersCreated      int
	CandidatesCreated int
	TotalUsers        int64
	Admins            int64
	Candidates        int64
}

// Voters 返回非管理员用户数
func (r *SeedReport) Voters() int64 { return r.TotalUsers - r.Admins }

type seedAccount struct {
	fixtures.Account
	admin bool
}

// Seeder 幂等地写入演示账号和候选人。
type Seeder struct {
	userRepo      repository.UserRepository
	candidateRepo repository.CandidateRepository
}

func NewSeeder(userRepo repository.UserRepository, candidateRepo repository.CandidateRepository) *Seeder {
	return &Seeder{userRepo: userRepo, candidateRepo: candidateRepo}
}

// Seed 只创建不存在的账号；候选人仅在候选人表为空时创建。
func (s *Seeder) Seed(ctx context.Context, data *fixtures.Fixtures) (*SeedReport, error) {
	if data == nil {
		data = fixtures.Default()
	}
	report := &SeedReport{}

	accounts := make([]seedAccount, 0, len(data.Admins)+len(data.Voters))
	for _, a := range data.Admins {
		accounts = append(accounts, seedAccount{a, true})
	}
	for _, v := range data.Voters {
		accounts = append(accounts, seedAccount{v, false})
	}

	for _, acc := range accounts {
		created, err := s.ensureUser(ctx, acc.Username, acc.Password, acc.admin)
		if err != nil {
			return nil, err
		}
		if created {
			report.UsersCreated++
		}
	}

	count, err := s.candidateRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: count candidates: %w", err)
	}
	if count == 0 {
		for _, c := range data.Candidates {
			candidate := &domain.Candidate{Name: c.Name, Party: c.Party, Description: c.Description}
			if err := s.candidateRepo.Create(ctx, candidate); err != nil {
				return nil, fmt.Errorf("seed: create candidate %s: %w", c.Name, err)
			}
			report.CandidatesCreated++
		}
	}

	if report.TotalUsers, report.Admins, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("seed: count users: %w", err)
	}
	if report.Candidates, err = s.candidateRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("seed: count candidates: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"users_created":      report.UsersCreated,
		"candidates_created": report.CandidatesCreated,
		"total_users":        report.TotalUsers,
		"total_candidates":   report.Candidates,
	}).Info("Seed data ensured")
	return report, nil
}

func (s *Seeder) ensureUser(ctx context.Context, username, password string, admin bool) (bool, error) {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("seed: find user %s: %w", username, err)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return false, fmt.Errorf("seed: hash password for %s: %w", username, err)
	}
	user := &domain.User{Username: username, Password: hashed, IsAdmin: admin}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return false, nil // 并发启动时另一个实例已创建
		}
		return false, fmt.Errorf("seed: create user %s: %w", username, err)
	}
	return true, nil
}
