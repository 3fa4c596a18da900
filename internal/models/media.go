package models

import (
	"time"

	"github.com/google/uuid"
)

// Media represents an uploaded asset (thumbnails and similar).
type Media struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   *string   `json:"alt_text,omitempty"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
