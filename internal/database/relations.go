package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/models"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Shared relation loaders. Join table names are compile-time constants passed
// in by the owning repository, never user input.

func loadMedia(ctx context.Context, db *DB, id uuid.UUID) (*models.Media, error) {
	m := &models.Media{}
	var altText sql.NullString
	var width, height sql.NullInt64

	err := db.QueryRowContext(ctx,
		"SELECT id, url, alt_text, width, height, created_at FROM media WHERE id = $1", id,
	).Scan(&m.ID, &m.URL, &altText, &width, &height, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}

	if altText.Valid {
		m.AltText = &altText.String
	}
	if width.Valid {
		w := int(width.Int64)
		m.Width = &w
	}
	if height.Valid {
		h := int(height.Int64)
		m.Height = &h
	}
	return m, nil
}

func loadRules(ctx context.Context, db *DB, challengeID uuid.UUID) ([]models.Rule, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, challenge_id, position, text FROM rules WHERE challenge_id = $1 ORDER BY position", challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		var rule models.Rule
		if err := rows.Scan(&rule.ID, &rule.ChallengeID, &rule.Position, &rule.Text); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func loadPublishedSubmissions(ctx context.Context, db *DB, challengeID uuid.UUID) ([]models.Submission, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE challenge_id = $1 AND published_at IS NOT NULL
		ORDER BY created_at DESC
	`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

func loadCreatorsVia(ctx context.Context, db *DB, joinTable, fkColumn string, id uuid.UUID) ([]models.Creator, error) {
	query := fmt.Sprintf(`
		SELECT c.%s
		FROM creators c
		JOIN %s j ON j.creator_id = c.id
		WHERE j.%s = $1 AND c.published_at IS NOT NULL
		ORDER BY c.name
	`, creatorColumns, joinTable, fkColumn)

	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load creators: %w", err)
	}
	defer rows.Close()

	var creators []models.Creator
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creator: %w", err)
		}
		creators = append(creators, *c)
	}
	return creators, rows.Err()
}

func loadFAQsVia(ctx context.Context, db *DB, joinTable, fkColumn string, id uuid.UUID) ([]models.FAQ, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.question, f.answer, f.published_at, f.created_at, f.updated_at
		FROM faqs f
		JOIN %s j ON j.faq_id = f.id
		WHERE j.%s = $1 AND f.published_at IS NOT NULL
		ORDER BY f.created_at
	`, joinTable, fkColumn)

	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load faqs: %w", err)
	}
	defer rows.Close()

	var faqs []models.FAQ
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, *f)
	}
	return faqs, rows.Err()
}

func loadCustomCodesVia(ctx context.Context, db *DB, joinTable, fkColumn string, id uuid.UUID) ([]models.CustomCode, error) {
	query := fmt.Sprintf(`
		SELECT cc.%s
		FROM custom_codes cc
		JOIN %s j ON j.code_id = cc.id
		WHERE j.%s = $1 AND cc.published_at IS NOT NULL
		ORDER BY cc.name
	`, customCodeColumns, joinTable, fkColumn)

	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom codes: %w", err)
	}
	defer rows.Close()

	var codes []models.CustomCode
	for rows.Next() {
		c, err := scanCustomCode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom code: %w", err)
		}
		codes = append(codes, *c)
	}
	return codes, rows.Err()
}

func loadChallengesVia(ctx context.Context, db *DB, joinTable, fkColumn string, id uuid.UUID) ([]models.Challenge, error) {
	query := fmt.Sprintf(`
		SELECT ch.%s
		FROM challenges ch
		JOIN %s j ON j.challenge_id = ch.id
		WHERE j.%s = $1 AND ch.published_at IS NOT NULL
		ORDER BY ch.created_at
	`, challengeColumns, joinTable, fkColumn)

	rows, err := db.QueryContext(ctx, query, id)
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
	return challenges, rows.Err()
}

func loadTournamentRow(ctx context.Context, db *DB, id uuid.UUID) (*models.Tournament, error) {
	t, err := scanTournament(db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM tournaments WHERE id = $1", tournamentColumns), id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	return t, nil
}
