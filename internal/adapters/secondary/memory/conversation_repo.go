package memory

import (
	"context"
	"sync"

	"curumim-backend/internal/core/domain"
	output "curumim-backend/internal/core/ports/output"
)

// conversationRepo keeps state in process memory; it is lost on restart.
type conversationRepo struct {
	mu       sync.RWMutex
	items    map[string]*domain.Conversation
	contribs *contributionRepo
}

// NewRepositories creates the in-memory conversation and contribution
// repositories. They share state so Complete can write both under one lock.
func NewRepositories() (output.ConversationRepository, output.ContributionRepository) {
	contribs := &contributionRepo{}
	convs := &conversationRepo{
		items:    make(map[string]*domain.Conversation),
		contribs: contribs,
	}
	return convs, contribs
}

func (r *conversationRepo) Get(_ context.Context, senderID string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.items[senderID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return conv.Clone(), nil
}

func (r *conversationRepo) Save(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[conv.SenderID] = conv.Clone()
	return nil
}

func (r *conversationRepo) Delete(_ context.Context, senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[senderID]; !ok {
		return domain.ErrConversationNotFound
	}
	delete(r.items, senderID)
	return nil
}

func (r *conversationRepo) Complete(_ context.Context, conv *domain.Conversation, contrib *domain.Contribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contribs.mu.Lock()
	defer r.contribs.mu.Unlock()

	r.items[conv.SenderID] = conv.Clone()
	cp := *contrib
	r.contribs.items = append(r.contribs.items, &cp)
	return nil
}

func (r *conversationRepo) Ping(context.Context) error {
	return nil
}
