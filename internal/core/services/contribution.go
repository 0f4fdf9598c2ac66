package services

import (
	"context"

	"github.com/google/uuid"

	"curumim-backend/internal/core/domain"
	"curumim-backend/internal/core/ports/output"
)

type ContributionService struct {
	repo ports.ContributionRepository
}

func NewContributionService(repo ports.ContributionRepository) *ContributionService {
	return &ContributionService{repo: repo}
}

func (s *ContributionService) Get(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContributionService) List(ctx context.Context, filter ports.ContributionFilter) ([]*domain.Contribution, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}
