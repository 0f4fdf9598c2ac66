package ports

import (
	"context"

	"github.com/google/uuid"

	"curumim-backend/internal/core/domain"
)

// ============================================================================
// Conversation Repository
// ============================================================================

// ConversationRepository defines the contract for per-sender state persistence
type ConversationRepository interface {
	// Get returns domain.ErrConversationNotFound for unknown senders
	Get(ctx context.Context, senderID string) (*domain.Conversation, error)

	// Save inserts or replaces the conversation
	Save(ctx context.Context, conv *domain.Conversation) error

	// Delete removes the conversation
	Delete(ctx context.Context, senderID string) error

	// Complete saves a finished conversation and records its contribution
	// in one unit. On error neither write is kept.
	Complete(ctx context.Context, conv *domain.Conversation, contrib *domain.Contribution) error
}

// ============================================================================
// Contribution Repository
// ============================================================================

type ContributionFilter struct {
	SenderID string
	Limit    int
	Offset   int
}

// ContributionRepository defines the contract for completed contributions
type ContributionRepository interface {
	Create(ctx context.Context, c *domain.Contribution) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error)
	List(ctx context.Context, filter ContributionFilter) ([]*domain.Contribution, int, error)
}

// Pinger is implemented by stores that can report liveness
type Pinger interface {
	Ping(ctx context.Context) error
}
