package models

import (
	"time"

	"github.com/google/uuid"
)

// Tournament groups challenges into a scheduled event. Its challenge list is
// returned in creation order (oldest first).
type Tournament struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	ThumbnailID *uuid.UUID `json:"-"`

	Thumbnail  *Media      `json:"thumbnail,omitempty"`
	Challenges []Challenge `json:"challenges,omitempty"`
}

func (t *Tournament) RecordID() uuid.UUID { return t.ID }

func (t *Tournament) RecordSlug() string { return t.Slug }
