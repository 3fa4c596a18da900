package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomCode is a shareable in-game code (level, seed, ruleset) published on
// the site.
type CustomCode struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	ThumbnailID *uuid.UUID `json:"-"`

	Thumbnail  *Media      `json:"thumbnail,omitempty"`
	Challenges []Challenge `json:"challenges,omitempty"`
	Creators   []Creator   `json:"creators,omitempty"`
	FAQs       []FAQ       `json:"faqs,omitempty"`
}

func (c *CustomCode) RecordID() uuid.UUID { return c.ID }

func (c *CustomCode) RecordSlug() string { return c.Slug }
