package models

import (
	"time"

	"github.com/google/uuid"
)

// IdeaType is the kind of content an idea proposes.
type IdeaType string

const (
	IdeaTypeCustomCode IdeaType = "CustomCode"
	IdeaTypeChallenge  IdeaType = "Challenge"
	IdeaTypeTournament IdeaType = "Tournament"
)

// Idea is a community suggestion. Like submissions, ideas start as drafts
// pending moderation.
type Idea struct {
	ID          uuid.UUID  `json:"id"`
	Type        IdeaType   `json:"type"`
	Description string     `json:"description"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	SubmitterIP   *string `json:"submitter_ip,omitempty"`
	ModeratorNote *string `json:"moderator_note,omitempty"`
}
