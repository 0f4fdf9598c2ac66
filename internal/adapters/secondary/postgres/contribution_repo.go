package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"curumim-backend/internal/core/domain"
	output "curumim-backend/internal/core/ports/output"
)

const contributionColumns = `id, sender_id, task_type, audio_key, audio_url, age, gender, created_at`

type contributionRepo struct {
	pool *pgxpool.Pool
}

// NewContributionRepository creates a new ContributionRepository
func NewContributionRepository(pool *pgxpool.Pool) output.ContributionRepository {
	return &contributionRepo{pool: pool}
}

func (r *contributionRepo) Create(ctx context.Context, c *domain.Contribution) error {
	return insertContribution(ctx, r.pool, c)
}

func (r *contributionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contribution WHERE id = $1`

	c, err := scanContribution(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContributionNotFound
		}
		return nil, fmt.Errorf("get contribution by id: %w", err)
	}
	return c, nil
}

func (r *contributionRepo) List(ctx context.Context, filter output.ContributionFilter) ([]*domain.Contribution, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filter.SenderID != "" {
		conditions = append(conditions, fmt.Sprintf("sender_id = $%d", argPos))
		args = append(args, filter.SenderID)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM contribution WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contributions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM contribution
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, contributionColumns, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Contribution, 0)
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contribution row: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contribution rows: %w", err)
	}

	return items, total, nil
}

func insertContribution(ctx context.Context, db execer, c *domain.Contribution) error {
	query := `
		INSERT INTO contribution (` + contributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db.Exec(ctx, query,
		c.ID, c.SenderID, c.TaskType, c.AudioKey, c.AudioURL, c.Age, c.Gender, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create contribution: %w", err)
	}
	return nil
}

// scanContribution works for both pgx.Row and pgx.Rows.
func scanContribution(row pgx.Row) (*domain.Contribution, error) {
	c := &domain.Contribution{}
	err := row.Scan(
		&c.ID, &c.SenderID, &c.TaskType, &c.AudioKey, &c.AudioURL,
		&c.Age, &c.Gender, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
