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

const creatorColumns = "id, name, slug, bio, channel_url, published_at, created_at, updated_at"

// CreatorRepository handles creator database operations
type CreatorRepository struct {
	db *DB
}

// NewCreatorRepository creates a new creator repository
func NewCreatorRepository(db *DB) *CreatorRepository {
	return &CreatorRepository{db: db}
}

func scanCreator(row rowScanner) (*models.Creator, error) {
	c := &models.Creator{}
	var bio, channelURL sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(&c.ID, &c.Name, &c.Slug, &bio, &channelURL, &publishedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if bio.Valid {
		c.Bio = &bio.String
	}
	if channelURL.Valid {
		c.ChannelURL = &channelURL.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		c.PublishedAt = &t
	}
	return c, nil
}

// FindBySlug returns all creators matching the slug in creation order.
func (r *CreatorRepository) FindBySlug(ctx context.Context, q content.Query) ([]*models.Creator, error) {
	query := fmt.Sprintf("SELECT %s FROM creators WHERE slug = $1", creatorColumns)
	if q.PublishedOnly {
		query += " AND published_at IS NOT NULL"
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, q.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query creators by slug: %w", err)
	}
	defer rows.Close()

	var creators []*models.Creator
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creator: %w", err)
		}
		creators = append(creators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate creators: %w", err)
	}

	for _, c := range creators {
		if err := r.populate(ctx, c, q.Populate); err != nil {
			return nil, err
		}
	}
	return creators, nil
}

// GetByID retrieves a creator by ID.
func (r *CreatorRepository) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.Creator, error) {
	query := fmt.Sprintf("SELECT %s FROM creators WHERE id = $1", creatorColumns)
	if publishedOnly {
		query += " AND published_at IS NOT NULL"
	}

	c, err := scanCreator(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("creator not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	return c, nil
}

// ListPublished returns a page of published creators ordered by name.
func (r *CreatorRepository) ListPublished(ctx context.Context, page, pageSize int) ([]*models.Creator, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM creators WHERE published_at IS NOT NULL").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count creators: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM creators
		WHERE published_at IS NOT NULL
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, creatorColumns)

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query creators: %w", err)
	}
	defer rows.Close()

	var creators []*models.Creator
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan creator: %w", err)
		}
		creators = append(creators, c)
	}
	return creators, total, rows.Err()
}

// Create creates a new creator.
func (r *CreatorRepository) Create(ctx context.Context, c *models.Creator) error {
	query := `
		INSERT INTO creators (id, name, slug, bio, channel_url, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Slug, c.Bio, c.ChannelURL, c.PublishedAt, now, now,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create creator: %w", err)
	}
	return nil
}

// Update updates an existing creator.
func (r *CreatorRepository) Update(ctx context.Context, c *models.Creator) error {
	query := `
		UPDATE creators
		SET name = $2, slug = $3, bio = $4, channel_url = $5, published_at = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Slug, c.Bio, c.ChannelURL, c.PublishedAt, time.Now(),
	).Scan(&c.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("creator not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update creator: %w", err)
	}
	return nil
}

// Delete removes a creator.
func (r *CreatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM creators WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete creator: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("creator not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *CreatorRepository) populate(ctx context.Context, c *models.Creator, relations []string) error {
	for _, rel := range relations {
		var err error
		switch rel {
		case "challenges":
			c.Challenges, err = loadChallengesVia(ctx, r.db, "challenge_creators", "creator_id", c.ID)
		case "tournaments":
			c.Tournaments, err = r.loadTournaments(ctx, c.ID)
		case "custom_codes":
			c.CustomCodes, err = loadCustomCodesVia(ctx, r.db, "code_creators", "creator_id", c.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to populate creator %s: %w", rel, err)
		}
	}
	return nil
}

func (r *CreatorRepository) loadTournaments(ctx context.Context, creatorID uuid.UUID) ([]models.Tournament, error) {
	query := fmt.Sprintf(`
		SELECT t.%s
		FROM tournaments t
		JOIN creator_tournaments j ON j.tournament_id = t.id
		WHERE j.creator_id = $1 AND t.published_at IS NOT NULL
		ORDER BY t.created_at
	`, tournamentColumns)

	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}
