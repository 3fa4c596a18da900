package database

import (
	"context"
	"fmt"

	"github.com/rushboard/challenge-api/internal/models"
)

// StatsRepository aggregates published-content counts.
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns published counts for the main content types.
func (r *StatsRepository) Overview(ctx context.Context) (*models.StatsOverview, error) {
	stats := &models.StatsOverview{}

	counts := []struct {
		table string
		dest  *int
	}{
		{"challenges", &stats.Challenges},
		{"custom_codes", &stats.CustomCodes},
		{"tournaments", &stats.Tournaments},
	}

	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE published_at IS NOT NULL", c.table)
		if err := r.db.QueryRowContext(ctx, query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return stats, nil
}
