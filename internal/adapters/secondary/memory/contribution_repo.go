package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"curumim-backend/internal/core/domain"
	output "curumim-backend/internal/core/ports/output"
)

type contributionRepo struct {
	mu    sync.RWMutex
	items []*domain.Contribution
}

// NewContributionRepository creates an in-memory ContributionRepository
func NewContributionRepository() output.ContributionRepository {
	return &contributionRepo{}
}

func (r *contributionRepo) Create(_ context.Context, c *domain.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	r.items = append(r.items, &cp)
	return nil
}

func (r *contributionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Contribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrContributionNotFound
}

// List returns newest first, like the postgres adapter.
func (r *contributionRepo) List(_ context.Context, filter output.ContributionFilter) ([]*domain.Contribution, int, error) {
	r.mu.RLock()
	matched := make([]*domain.Contribution, 0, len(r.items))
	for _, c := range r.items {
		if filter.SenderID != "" && c.SenderID != filter.SenderID {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return []*domain.Contribution{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < total {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}
