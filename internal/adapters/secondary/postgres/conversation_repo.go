package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"curumim-backend/internal/core/domain"
	output "curumim-backend/internal/core/ports/output"
)

type conversationRepo struct {
	pool *pgxpool.Pool
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(pool *pgxpool.Pool) output.ConversationRepository {
	return &conversationRepo{pool: pool}
}

func (r *conversationRepo) Get(ctx context.Context, senderID string) (*domain.Conversation, error) {
	query := `
		SELECT sender_id, stage, metadata, created_at, updated_at
		FROM conversation
		WHERE sender_id = $1
	`

	var (
		conv     domain.Conversation
		metadata []byte
	)
	err := r.pool.QueryRow(ctx, query, senderID).Scan(
		&conv.SenderID, &conv.Stage, &metadata, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &conv.Metadata); err != nil {
			return nil, fmt.Errorf("decode conversation metadata: %w", err)
		}
	}
	return &conv, nil
}

func (r *conversationRepo) Save(ctx context.Context, conv *domain.Conversation) error {
	return saveConversation(ctx, r.pool, conv)
}

// Complete upserts the finished conversation and inserts its contribution in
// a single transaction.
func (r *conversationRepo) Complete(ctx context.Context, conv *domain.Conversation, contrib *domain.Contribution) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin complete conversation: %w", err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(ctx) }()

	if err := saveConversation(ctx, tx, conv); err != nil {
		return err
	}
	if err := insertContribution(ctx, tx, contrib); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit complete conversation: %w", err)
	}
	return nil
}

func (r *conversationRepo) Delete(ctx context.Context, senderID string) error {
	query := `DELETE FROM conversation WHERE sender_id = $1`

	result, err := r.pool.Exec(ctx, query, senderID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *conversationRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func saveConversation(ctx context.Context, db execer, conv *domain.Conversation) error {
	metadata, err := json.Marshal(conv.Metadata)
	if err != nil {
		return fmt.Errorf("encode conversation metadata: %w", err)
	}

	query := `
		INSERT INTO conversation (sender_id, stage, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sender_id) DO UPDATE
		SET stage = EXCLUDED.stage,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
	`

	_, err = db.Exec(ctx, query,
		conv.SenderID, string(conv.Stage), metadata, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}
