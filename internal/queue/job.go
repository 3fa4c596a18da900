package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeModerationReview asks the worker to notify moderators about a
	// new draft awaiting review.
	JobTypeModerationReview JobType = "moderation_review"
)

// ContentKind names the draft content a review job points at.
type ContentKind string

const (
	ContentKindSubmission ContentKind = "submission"
	ContentKindIdea       ContentKind = "idea"
)

// Job represents a job in the queue
type Job struct {
	ID          uuid.UUID      `json:"id"`
	Type        JobType        `json:"type"`
	ContentKind ContentKind    `json:"content_kind"`
	ContentID   uuid.UUID      `json:"content_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	RetryCount  int            `json:"retry_count"`
	MaxRetries  int            `json:"max_retries"`
}

// NewReviewJob creates a moderation-review job for one draft record.
func NewReviewJob(kind ContentKind, contentID uuid.UUID) *Job {
	return &Job{
		ID:          uuid.New(),
		Type:        JobTypeModerationReview,
		ContentKind: kind,
		ContentID:   contentID,
		Metadata:    make(map[string]any),
		CreatedAt:   time.Now(),
		RetryCount:  0,
		MaxRetries:  3,
	}
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
