package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/models"
)

const submissionColumns = "id, challenge_id, runner, runner_url, video_url, result, note, submitter_ip, moderator_note, published_at, created_at, updated_at"

// SubmissionRepository handles submission database operations
type SubmissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	s := &models.Submission{}
	var runnerURL, note, submitterIP, moderatorNote sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ChallengeID,
		&s.Runner,
		&runnerURL,
		&s.VideoURL,
		&s.Result,
		&note,
		&submitterIP,
		&moderatorNote,
		&publishedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if runnerURL.Valid {
		s.RunnerURL = &runnerURL.String
	}
	if note.Valid {
		s.Note = &note.String
	}
	if submitterIP.Valid {
		s.SubmitterIP = &submitterIP.String
	}
	if moderatorNote.Valid {
		s.ModeratorNote = &moderatorNote.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		s.PublishedAt = &t
	}
	return s, nil
}

// Create inserts a submission. Callers set PublishedAt to nil so the record
// starts as a draft pending moderation.
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO submissions (id, challenge_id, runner, runner_url, video_url, result, note, submitter_ip, moderator_note, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.ChallengeID,
		s.Runner,
		s.RunnerURL,
		s.VideoURL,
		s.Result,
		s.Note,
		s.SubmitterIP,
		s.ModeratorNote,
		s.PublishedAt,
		now,
		now,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	s, err := scanSubmission(r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM submissions WHERE id = $1", submissionColumns), id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("submission not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

// ListPending returns draft submissions awaiting moderation, oldest first.
func (r *SubmissionRepository) ListPending(ctx context.Context, limit int) ([]*models.Submission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM submissions
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`, submissionColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending submissions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// Publish marks a submission as published.
func (r *SubmissionRepository) Publish(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE submissions SET published_at = $2, updated_at = $2 WHERE id = $1 AND published_at IS NULL",
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to publish submission: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission not found or already published: %w", sql.ErrNoRows)
	}
	return nil
}

// Delete removes a submission (moderation rejection).
func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission not found: %w", sql.ErrNoRows)
	}
	return nil
}
