// Package content implements the slug-resolution read path shared by every
// public content type.
package content

import (
	"github.com/google/uuid"
)

// Record is the minimal view of a content record the resolver needs.
type Record interface {
	RecordID() uuid.UUID
	RecordSlug() string
}

// Query describes a slug lookup against the backing store.
type Query struct {
	Slug          string
	PublishedOnly bool
	Populate      []string
}

// TypeConfig parameterizes the resolver per content type. The same algorithm
// serves challenges, creators, tournaments and custom codes; only the display
// name and the relation set differ.
type TypeConfig struct {
	// Name is the human-facing type name used in error messages ("Challenge").
	Name string
	// Relations is the relation set attached to a resolved record.
	Relations []string
	// PublishedOnly restricts lookups to published records.
	PublishedOnly bool
}

// Relation sets mirror what the public site renders for each type.
var (
	ChallengeType = TypeConfig{
		Name:          "Challenge",
		Relations:     []string{"thumbnail", "submissions", "creators", "faqs", "custom_code", "rules", "tournament"},
		PublishedOnly: true,
	}
	CreatorType = TypeConfig{
		Name:          "Creator",
		Relations:     []string{"challenges", "tournaments", "custom_codes"},
		PublishedOnly: true,
	}
	TournamentType = TypeConfig{
		Name:          "Tournament",
		Relations:     []string{"thumbnail", "challenges"},
		PublishedOnly: true,
	}
	CustomCodeType = TypeConfig{
		Name:          "Custom code",
		Relations:     []string{"thumbnail", "challenges", "creators", "faqs"},
		PublishedOnly: true,
	}
)
