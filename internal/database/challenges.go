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

const challengeColumns = "id, title, slug, description, difficulty, thumbnail_id, tournament_id, published_at, created_at, updated_at"

// ChallengeRepository handles challenge database operations
type ChallengeRepository struct {
	db *DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func scanChallenge(row rowScanner) (*models.Challenge, error) {
	ch := &models.Challenge{}
	var description sql.NullString
	var difficulty sql.NullString
	var thumbnailID, tournamentID uuid.NullUUID
	var publishedAt sql.NullTime

	err := row.Scan(
		&ch.ID,
		&ch.Title,
		&ch.Slug,
		&description,
		&difficulty,
		&thumbnailID,
		&tournamentID,
		&publishedAt,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ch.Description = description.String
	if difficulty.Valid {
		ch.Difficulty = &difficulty.String
	}
	if thumbnailID.Valid {
		id := thumbnailID.UUID
		ch.ThumbnailID = &id
	}
	if tournamentID.Valid {
		id := tournamentID.UUID
		ch.TournamentID = &id
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		ch.PublishedAt = &t
	}
	return ch, nil
}

// FindBySlug returns all challenges matching the slug in creation order. The
// slug column is intended to be unique among published rows but the schema
// does not enforce it, so callers must cope with multiple matches.
func (r *ChallengeRepository) FindBySlug(ctx context.Context, q content.Query) ([]*models.Challenge, error) {
	query := fmt.Sprintf("SELECT %s FROM challenges WHERE slug = $1", challengeColumns)
	if q.PublishedOnly {
		query += " AND published_at IS NOT NULL"
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, q.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges by slug: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate challenges: %w", err)
	}

	for _, ch := range challenges {
		if err := r.populate(ctx, ch, q.Populate); err != nil {
			return nil, err
		}
	}
	return challenges, nil
}

// GetByID retrieves a challenge by ID.
func (r *ChallengeRepository) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.Challenge, error) {
	query := fmt.Sprintf("SELECT %s FROM challenges WHERE id = $1", challengeColumns)
	if publishedOnly {
		query += " AND published_at IS NOT NULL"
	}

	ch, err := scanChallenge(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("challenge not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return ch, nil
}

// ListPublished returns a page of published challenges (newest first) with
// thumbnails attached, plus the total published count.
func (r *ChallengeRepository) ListPublished(ctx context.Context, page, pageSize int) ([]*models.Challenge, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM challenges WHERE published_at IS NOT NULL").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count challenges: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM challenges
		WHERE published_at IS NOT NULL
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, challengeColumns)

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate challenges: %w", err)
	}

	for _, ch := range challenges {
		if err := r.populate(ctx, ch, []string{"thumbnail"}); err != nil {
			return nil, 0, err
		}
	}
	return challenges, total, nil
}

// Create creates a new challenge.
func (r *ChallengeRepository) Create(ctx context.Context, ch *models.Challenge) error {
	query := `
		INSERT INTO challenges (id, title, slug, description, difficulty, thumbnail_id, tournament_id, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		ch.ID,
		ch.Title,
		ch.Slug,
		ch.Description,
		ch.Difficulty,
		ch.ThumbnailID,
		ch.TournamentID,
		ch.PublishedAt,
		now,
		now,
	).Scan(&ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// Update updates an existing challenge.
func (r *ChallengeRepository) Update(ctx context.Context, ch *models.Challenge) error {
	query := `
		UPDATE challenges
		SET title = $2, slug = $3, description = $4, difficulty = $5, thumbnail_id = $6, tournament_id = $7, published_at = $8, updated_at = $9
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		ch.ID,
		ch.Title,
		ch.Slug,
		ch.Description,
		ch.Difficulty,
		ch.ThumbnailID,
		ch.TournamentID,
		ch.PublishedAt,
		time.Now(),
	).Scan(&ch.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("challenge not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	return nil
}

// Delete removes a challenge.
func (r *ChallengeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM challenges WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("challenge not found: %w", sql.ErrNoRows)
	}
	return nil
}

// CountPublished returns the number of published challenges.
func (r *ChallengeRepository) CountPublished(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM challenges WHERE published_at IS NOT NULL").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count challenges: %w", err)
	}
	return n, nil
}

// populate attaches the requested relations to a challenge.
func (r *ChallengeRepository) populate(ctx context.Context, ch *models.Challenge, relations []string) error {
	for _, rel := range relations {
		var err error
		switch rel {
		case "thumbnail":
			if ch.ThumbnailID != nil {
				ch.Thumbnail, err = loadMedia(ctx, r.db, *ch.ThumbnailID)
			}
		case "rules":
			ch.Rules, err = loadRules(ctx, r.db, ch.ID)
		case "submissions":
			ch.Submissions, err = loadPublishedSubmissions(ctx, r.db, ch.ID)
		case "creators":
			ch.Creators, err = loadCreatorsVia(ctx, r.db, "challenge_creators", "challenge_id", ch.ID)
		case "faqs":
			ch.FAQs, err = loadFAQsVia(ctx, r.db, "challenge_faqs", "challenge_id", ch.ID)
		case "custom_code":
			ch.CustomCodes, err = loadCustomCodesVia(ctx, r.db, "challenge_codes", "challenge_id", ch.ID)
		case "tournament":
			if ch.TournamentID != nil {
				ch.Tournament, err = loadTournamentRow(ctx, r.db, *ch.TournamentID)
			}
		}
		if err != nil {
			return fmt.Errorf("failed to populate challenge %s: %w", rel, err)
		}
	}
	return nil
}
