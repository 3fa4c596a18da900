package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/content"
	"github.com/rushboard/challenge-api/internal/models"
)

// Store interfaces consumed by the handler layer. Declared here so handler
// tests can substitute in-memory fakes for the Postgres repositories.

// ChallengeStore is the data-access surface for challenges.
type ChallengeStore interface {
	FindBySlug(ctx context.Context, q content.Query) ([]*models.Challenge, error)
	GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.Challenge, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]*models.Challenge, int, error)
	Create(ctx context.Context, ch *models.Challenge) error
	Update(ctx context.Context, ch *models.Challenge) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreatorStore is the data-access surface for creators.
type CreatorStore interface {
	FindBySlug(ctx context.Context, q content.Query) ([]*models.Creator, error)
	GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.Creator, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]*models.Creator, int, error)
	Create(ctx context.Context, c *models.Creator) error
	Update(ctx context.Context, c *models.Creator) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TournamentStore is the data-access surface for tournaments.
type TournamentStore interface {
	FindBySlug(ctx context.Context, q content.Query) ([]*models.Tournament, error)
	GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.Tournament, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]*models.Tournament, int, error)
	Create(ctx context.Context, t *models.Tournament) error
	Update(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomCodeStore is the data-access surface for custom codes.
type CustomCodeStore interface {
	FindBySlug(ctx context.Context, q content.Query) ([]*models.CustomCode, error)
	GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.CustomCode, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]*models.CustomCode, int, error)
	Create(ctx context.Context, c *models.CustomCode) error
	Update(ctx context.Context, c *models.CustomCode) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubmissionStore is the data-access surface for submissions.
type SubmissionStore interface {
	Create(ctx context.Context, s *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListPending(ctx context.Context, limit int) ([]*models.Submission, error)
	Publish(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdeaStore is the data-access surface for ideas.
type IdeaStore interface {
	Create(ctx context.Context, i *models.Idea) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	ListPending(ctx context.Context, limit int) ([]*models.Idea, error)
	Publish(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FAQStore is the data-access surface for FAQs.
type FAQStore interface {
	ListPublished(ctx context.Context) ([]*models.FAQ, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error)
	Create(ctx context.Context, f *models.FAQ) error
	Update(ctx context.Context, f *models.FAQ) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatsStore aggregates published-content counts.
type StatsStore interface {
	Overview(ctx context.Context) (*models.StatsOverview, error)
}

// Ensure concrete types implement the interfaces
var (
	_ ChallengeStore  = (*ChallengeRepository)(nil)
	_ CreatorStore    = (*CreatorRepository)(nil)
	_ TournamentStore = (*TournamentRepository)(nil)
	_ CustomCodeStore = (*CustomCodeRepository)(nil)
	_ SubmissionStore = (*SubmissionRepository)(nil)
	_ IdeaStore       = (*IdeaRepository)(nil)
	_ FAQStore        = (*FAQRepository)(nil)
	_ StatsStore      = (*StatsRepository)(nil)
)
