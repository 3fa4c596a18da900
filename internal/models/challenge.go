package models

import (
	"time"

	"github.com/google/uuid"
)

// Challenge is a community challenge. A nil PublishedAt means the record is a
// draft and invisible to the public API.
type Challenge struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Difficulty  *string    `json:"difficulty,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Foreign keys, loaded on the base row.
	ThumbnailID  *uuid.UUID `json:"-"`
	TournamentID *uuid.UUID `json:"-"`

	// Relations, attached only when requested via populate.
	Thumbnail   *Media        `json:"thumbnail,omitempty"`
	Rules       []Rule        `json:"rules,omitempty"`
	Submissions []Submission  `json:"submissions,omitempty"`
	Creators    []Creator     `json:"creators,omitempty"`
	FAQs        []FAQ         `json:"faqs,omitempty"`
	CustomCodes []CustomCode  `json:"custom_code,omitempty"`
	Tournament  *Tournament   `json:"tournament,omitempty"`
}

func (c *Challenge) RecordID() uuid.UUID { return c.ID }

func (c *Challenge) RecordSlug() string { return c.Slug }
