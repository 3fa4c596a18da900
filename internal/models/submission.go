package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a run submitted by an end user against a challenge. Submissions
// are always created as drafts and become visible only after a moderator
// publishes them.
type Submission struct {
	ID          uuid.UUID  `json:"id"`
	ChallengeID uuid.UUID  `json:"challenge"`
	Runner      string     `json:"runner"`
	RunnerURL   *string    `json:"runner_url,omitempty"`
	VideoURL    string     `json:"video_url"`
	Result      string     `json:"result"`
	Note        *string    `json:"note,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Internal moderation fields, stripped by the output sanitizer before a
	// record leaves the service.
	SubmitterIP   *string `json:"submitter_ip,omitempty"`
	ModeratorNote *string `json:"moderator_note,omitempty"`
}
