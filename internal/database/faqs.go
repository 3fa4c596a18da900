package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/models"
)

// FAQRepository handles FAQ database operations
type FAQRepository struct {
	db *DB
}

// NewFAQRepository creates a new FAQ repository
func NewFAQRepository(db *DB) *FAQRepository {
	return &FAQRepository{db: db}
}

func scanFAQ(row rowScanner) (*models.FAQ, error) {
	f := &models.FAQ{}
	var publishedAt sql.NullTime

	err := row.Scan(&f.ID, &f.Question, &f.Answer, &publishedAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		t := publishedAt.Time
		f.PublishedAt = &t
	}
	return f, nil
}

// ListPublished returns all published FAQs in creation order.
func (r *FAQRepository) ListPublished(ctx context.Context) ([]*models.FAQ, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, answer, published_at, created_at, updated_at
		FROM faqs
		WHERE published_at IS NOT NULL
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	var faqs []*models.FAQ
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// GetByID retrieves an FAQ by ID.
func (r *FAQRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error) {
	f, err := scanFAQ(r.db.QueryRowContext(ctx, `
		SELECT id, question, answer, published_at, created_at, updated_at
		FROM faqs WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("faq not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faq: %w", err)
	}
	return f, nil
}

// Create creates a new FAQ.
func (r *FAQRepository) Create(ctx context.Context, f *models.FAQ) error {
	query := `
		INSERT INTO faqs (id, question, answer, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		f.ID, f.Question, f.Answer, f.PublishedAt, now, now,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	return nil
}

// Update updates an existing FAQ.
func (r *FAQRepository) Update(ctx context.Context, f *models.FAQ) error {
	query := `
		UPDATE faqs
		SET question = $2, answer = $3, published_at = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		f.ID, f.Question, f.Answer, f.PublishedAt, time.Now(),
	).Scan(&f.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("faq not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update faq: %w", err)
	}
	return nil
}

// Delete removes an FAQ.
func (r *FAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM faqs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("faq not found: %w", sql.ErrNoRows)
	}
	return nil
}
