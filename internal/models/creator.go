package models

import (
	"time"

	"github.com/google/uuid"
)

// Creator is a content creator featured on the site.
type Creator struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Bio         *string    `json:"bio,omitempty"`
	ChannelURL  *string    `json:"channel_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Challenges  []Challenge  `json:"challenges,omitempty"`
	Tournaments []Tournament `json:"tournaments,omitempty"`
	CustomCodes []CustomCode `json:"custom_codes,omitempty"`
}

func (c *Creator) RecordID() uuid.UUID { return c.ID }

func (c *Creator) RecordSlug() string { return c.Slug }
