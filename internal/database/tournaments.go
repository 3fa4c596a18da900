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

const tournamentColumns = "id, name, slug, description, starts_at, ends_at, thumbnail_id, published_at, created_at, updated_at"

// TournamentRepository handles tournament database operations
type TournamentRepository struct {
	db *DB
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var description sql.NullString
	var startsAt, endsAt, publishedAt sql.NullTime
	var thumbnailID uuid.NullUUID

	err := row.Scan(&t.ID, &t.Name, &t.Slug, &description, &startsAt, &endsAt, &thumbnailID, &publishedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	if startsAt.Valid {
		v := startsAt.Time
		t.StartsAt = &v
	}
	if endsAt.Valid {
		v := endsAt.Time
		t.EndsAt = &v
	}
	if thumbnailID.Valid {
		id := thumbnailID.UUID
		t.ThumbnailID = &id
	}
	if publishedAt.Valid {
		v := publishedAt.Time
		t.PublishedAt = &v
	}
	return t, nil
}

// FindBySlug returns all tournaments matching the slug in creation order.
func (r *TournamentRepository) FindBySlug(ctx context.Context, q content.Query) ([]*models.Tournament, error) {
	query := fmt.Sprintf("SELECT %s FROM tournaments WHERE slug = $1", tournamentColumns)
	if q.PublishedOnly {
		query += " AND published_at IS NOT NULL"
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, q.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments by slug: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tournaments: %w", err)
	}

	for _, t := range tournaments {
		if err := r.populate(ctx, t, q.Populate); err != nil {
			return nil, err
		}
	}
	return tournaments, nil
}

// GetByID retrieves a tournament by ID.
func (r *TournamentRepository) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.Tournament, error) {
	query := fmt.Sprintf("SELECT %s FROM tournaments WHERE id = $1", tournamentColumns)
	if publishedOnly {
		query += " AND published_at IS NOT NULL"
	}

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tournament not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

// ListPublished returns a page of published tournaments, newest first.
func (r *TournamentRepository) ListPublished(ctx context.Context, page, pageSize int) ([]*models.Tournament, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tournaments WHERE published_at IS NOT NULL").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tournaments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM tournaments
		WHERE published_at IS NOT NULL
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, tournamentColumns)

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tournaments: %w", err)
	}

	for _, t := range tournaments {
		if err := r.populate(ctx, t, []string{"thumbnail"}); err != nil {
			return nil, 0, err
		}
	}
	return tournaments, total, nil
}

// Create creates a new tournament.
func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (id, name, slug, description, starts_at, ends_at, thumbnail_id, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Slug, t.Description, t.StartsAt, t.EndsAt, t.ThumbnailID, t.PublishedAt, now, now,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

// Update updates an existing tournament.
func (r *TournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $2, slug = $3, description = $4, starts_at = $5, ends_at = $6, thumbnail_id = $7, published_at = $8, updated_at = $9
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Slug, t.Description, t.StartsAt, t.EndsAt, t.ThumbnailID, t.PublishedAt, time.Now(),
	).Scan(&t.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("tournament not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	return nil
}

// Delete removes a tournament.
func (r *TournamentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tournaments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tournament not found: %w", sql.ErrNoRows)
	}
	return nil
}

// CountPublished returns the number of published tournaments.
func (r *TournamentRepository) CountPublished(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tournaments WHERE published_at IS NOT NULL").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return n, nil
}

func (r *TournamentRepository) populate(ctx context.Context, t *models.Tournament, relations []string) error {
	for _, rel := range relations {
		var err error
		switch rel {
		case "thumbnail":
			if t.ThumbnailID != nil {
				t.Thumbnail, err = loadMedia(ctx, r.db, *t.ThumbnailID)
			}
		case "challenges":
			t.Challenges, err = r.loadChallenges(ctx, t.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to populate tournament %s: %w", rel, err)
		}
	}
	return nil
}

// loadChallenges returns the tournament's published challenges in creation
// order (oldest first), each with its own thumbnail and rules.
func (r *TournamentRepository) loadChallenges(ctx context.Context, tournamentID uuid.UUID) ([]models.Challenge, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM challenges
		WHERE tournament_id = $1 AND published_at IS NOT NULL
		ORDER BY created_at ASC
	`, challengeColumns)

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range challenges {
		ch := &challenges[i]
		if ch.ThumbnailID != nil {
			ch.Thumbnail, err = loadMedia(ctx, r.db, *ch.ThumbnailID)
			if err != nil {
				return nil, err
			}
		}
		ch.Rules, err = loadRules(ctx, r.db, ch.ID)
		if err != nil {
			return nil, err
		}
	}
	return challenges, nil
}
