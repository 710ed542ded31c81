package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

// GormCandidateRepository 是 CandidateRepository 接口的 GORM 实现
type GormCandidateRepository struct {
	db *gorm.DB
}

func NewGormCandidateRepository(db *gorm.DB) *GormCandidateRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCandidateRepository")
	}
	return &GormCandidateRepository{db: db}
}

func (r *GormCandidateRepository) FindByID(ctx context.Context, id uint) (*domain.Candidate, error) {
	var candidate domain.Candidate
	err := r.db.WithContext(ctx).First(&candidate, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("gorm: find candidate by id %d: %w", id, err)
	}
	return &candidate, nil
}

// Create 插入新候选人。计数器由投票事务维护，这里强制为 0。
func (r *GormCandidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	candidate.ID = 0
	candidate.Votes = 0
	if err := r.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return fmt.Errorf("gorm: create candidate '%s': %w", candidate.Name, err)
	}
	return nil
}

func (r *GormCandidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("gorm: list candidates: %w", err)
	}
	return candidates, nil
}

// ListByVotes 票数降序，同票按 ID 升序 (即创建顺序)
func (r *GormCandidateRepository) ListByVotes(ctx context.Context) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	err := r.db.WithContext(ctx).Order("votes DESC").Order("id ASC").Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list candidates by votes: %w", err)
	}
	return candidates, nil
}

func (r *GormCandidateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Candidate{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count candidates: %w", err)
	}
	return count, nil
}
