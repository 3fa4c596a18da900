package models

import (
	"time"

	"github.com/google/uuid"
)

// FAQ is a question/answer pair attachable to challenges and custom codes.
type FAQ struct {
	ID          uuid.UUID  `json:"id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Rule is a single ordered rule line belonging to a challenge.
type Rule struct {
	ID          uuid.UUID `json:"id"`
	ChallengeID uuid.UUID `json:"-"`
	Position    int       `json:"position"`
	Text        string    `json:"text"`
}
