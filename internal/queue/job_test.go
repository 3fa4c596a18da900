package queue

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewReviewJob(t *testing.T) {
	t.Parallel()

	contentID := uuid.New()
	job := NewReviewJob(ContentKindSubmission, contentID)

	if job.ID == uuid.Nil {
		t.Error("job ID should be set")
	}
	if job.Type != JobTypeModerationReview {
		t.Errorf("Type = %q, want %q", job.Type, JobTypeModerationReview)
	}
	if job.ContentKind != ContentKindSubmission {
		t.Errorf("ContentKind = %q, want %q", job.ContentKind, ContentKindSubmission)
	}
	if job.ContentID != contentID {
		t.Errorf("ContentID = %s, want %s", job.ContentID, contentID)
	}
	if job.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if job.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", job.MaxRetries)
	}
}

func TestJobRetry(t *testing.T) {
	t.Parallel()

	job := NewReviewJob(ContentKindIdea, uuid.New())

	for i := 0; i < job.MaxRetries; i++ {
		if !job.CanRetry() {
			t.Fatalf("CanRetry should be true at retry count %d", job.RetryCount)
		}
		job.IncrementRetry()
	}

	if job.CanRetry() {
		t.Errorf("CanRetry should be false at retry count %d", job.RetryCount)
	}
}
