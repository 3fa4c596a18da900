package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/content"
	"github.com/rushboard/challenge-api/internal/models"
)

const customCodeColumns = "id, name, slug, code, description, thumbnail_id, published_at, created_at, updated_at"

// CustomCodeRepository handles custom code database operations
type CustomCodeRepository struct {
	db *DB
}

// NewCustomCodeRepository creates a new custom code repository
func NewCustomCodeRepository(db *DB) *CustomCodeRepository {
	return &CustomCodeRepository{db: db}
}

func scanCustomCode(row rowScanner) (*models.CustomCode, error) {
	c := &models.CustomCode{}
	var description sql.NullString
	var thumbnailID uuid.NullUUID
	var publishedAt sql.NullTime

	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Code, &description, &thumbnailID, &publishedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	if thumbnailID.Valid {
		id := thumbnailID.UUID
		c.ThumbnailID = &id
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		c.PublishedAt = &t
	}
	return c, nil
}

// FindBySlug returns all custom codes matching the slug in creation order.
func (r *CustomCodeRepository) FindBySlug(ctx context.Context, q content.Query) ([]*models.CustomCode, error) {
	query := fmt.Sprintf("SELECT %s FROM custom_codes WHERE slug = $1", customCodeColumns)
	if q.PublishedOnly {
		query += " AND published_at IS NOT NULL"
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, q.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom codes by slug: %w", err)
	}
	defer rows.Close()

	var codes []*models.CustomCode
	for rows.Next() {
		c, err := scanCustomCode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom code: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom codes: %w", err)
	}

	for _, c := range codes {
		if err := r.populate(ctx, c, q.Populate); err != nil {
			return nil, err
		}
	}
	return codes, nil
}

// GetByID retrieves a custom code by ID.
func (r *CustomCodeRepository) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.CustomCode, error) {
	query := fmt.Sprintf("SELECT %s FROM custom_codes WHERE id = $1", customCodeColumns)
	if publishedOnly {
		query += " AND published_at IS NOT NULL"
	}

	c, err := scanCustomCode(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("custom code not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom code: %w", err)
	}
	return c, nil
}

// ListPublished returns a page of published custom codes, newest first.
func (r *CustomCodeRepository) ListPublished(ctx context.Context, page, pageSize int) ([]*models.CustomCode, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM custom_codes WHERE published_at IS NOT NULL").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count custom codes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM custom_codes
		WHERE published_at IS NOT NULL
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, customCodeColumns)

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query custom codes: %w", err)
	}
	defer rows.Close()

	var codes []*models.CustomCode
	for rows.Next() {
		c, err := scanCustomCode(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan custom code: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate custom codes: %w", err)
	}

	for _, c := range codes {
		if err := r.populate(ctx, c, []string{"thumbnail"}); err != nil {
			return nil, 0, err
		}
	}
	return codes, total, nil
}

// Create creates a new custom code.
func (r *CustomCodeRepository) Create(ctx context.Context, c *models.CustomCode) error {
	query := `
		INSERT INTO custom_codes (id, name, slug, code, description, thumbnail_id, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Slug, c.Code, c.Description, c.ThumbnailID, c.PublishedAt, now, now,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create custom code: %w", err)
	}
	return nil
}

// Update updates an existing custom code.
func (r *CustomCodeRepository) Update(ctx context.Context, c *models.CustomCode) error {
	query := `
		UPDATE custom_codes
		SET name = $2, slug = $3, code = $4, description = $5, thumbnail_id = $6, published_at = $7, updated_at = $8
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Slug, c.Code, c.Description, c.ThumbnailID, c.PublishedAt, time.Now(),
	).Scan(&c.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("custom code not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update custom code: %w", err)
	}
	return nil
}

// Delete removes a custom code.
func (r *CustomCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM custom_codes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete custom code: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("custom code not found: %w", sql.ErrNoRows)
	}
	return nil
}

// CountPublished returns the number of published custom codes.
func (r *CustomCodeRepository) CountPublished(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM custom_codes WHERE published_at IS NOT NULL").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count custom codes: %w", err)
	}
	return n, nil
}

func (r *CustomCodeRepository) populate(ctx context.Context, c *models.CustomCode, relations []string) error {
	for _, rel := range relations {
		var err error
		switch rel {
		case "thumbnail":
			if c.ThumbnailID != nil {
				c.Thumbnail, err = loadMedia(ctx, r.db, *c.ThumbnailID)
			}
		case "challenges":
			c.Challenges, err = loadChallengesVia(ctx, r.db, "challenge_codes", "code_id", c.ID)
		case "creators":
			c.Creators, err = loadCreatorsVia(ctx, r.db, "code_creators", "code_id", c.ID)
		case "faqs":
			c.FAQs, err = loadFAQsVia(ctx, r.db, "code_faqs", "code_id", c.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to populate custom code %s: %w", rel, err)
		}
	}
	return nil
}
