package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/models"
)

const ideaColumns = "id, idea_type, description, submitter_ip, moderator_note, published_at, created_at, updated_at"

// IdeaRepository handles idea database operations
type IdeaRepository struct {
	db *DB
}

// NewIdeaRepository creates a new idea repository
func NewIdeaRepository(db *DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

func scanIdea(row rowScanner) (*models.Idea, error) {
	i := &models.Idea{}
	var submitterIP, moderatorNote sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(&i.ID, &i.Type, &i.Description, &submitterIP, &moderatorNote, &publishedAt, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if submitterIP.Valid {
		i.SubmitterIP = &submitterIP.String
	}
	if moderatorNote.Valid {
		i.ModeratorNote = &moderatorNote.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		i.PublishedAt = &t
	}
	return i, nil
}

// Create inserts an idea as a draft.
func (r *IdeaRepository) Create(ctx context.Context, i *models.Idea) error {
	query := `
		INSERT INTO ideas (id, idea_type, description, submitter_ip, moderator_note, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		i.ID, i.Type, i.Description, i.SubmitterIP, i.ModeratorNote, i.PublishedAt, now, now,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}
	return nil
}

// GetByID retrieves an idea by ID.
func (r *IdeaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	i, err := scanIdea(r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM ideas WHERE id = $1", ideaColumns), id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("idea not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return i, nil
}

// ListPending returns draft ideas awaiting moderation, oldest first.
func (r *IdeaRepository) ListPending(ctx context.Context, limit int) ([]*models.Idea, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ideas
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`, ideaColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		i, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, i)
	}
	return ideas, rows.Err()
}

// Publish marks an idea as published.
func (r *IdeaRepository) Publish(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ideas SET published_at = $2, updated_at = $2 WHERE id = $1 AND published_at IS NULL",
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to publish idea: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("idea not found or already published: %w", sql.ErrNoRows)
	}
	return nil
}

// Delete removes an idea (moderation rejection).
func (r *IdeaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM ideas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("idea not found: %w", sql.ErrNoRows)
	}
	return nil
}
