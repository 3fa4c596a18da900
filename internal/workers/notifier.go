// Package workers contains the background job processors consumed from the
// message queue.
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rushboard/challenge-api/internal/database"
	"github.com/rushboard/challenge-api/internal/queue"
	"go.uber.org/zap"
)

const webhookTimeout = 10 * time.Second

// ReviewNotifier processes moderation-review jobs: it looks up the draft the
// job points at and notifies moderators through a webhook. With no webhook
// configured it only logs, which still gives operators a queue-backed audit
// trail of incoming drafts.
type ReviewNotifier struct {
	submissions database.SubmissionStore
	ideas       database.IdeaStore
	webhookURL  string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewReviewNotifier creates a review notifier. webhookURL may be empty.
func NewReviewNotifier(submissions database.SubmissionStore, ideas database.IdeaStore, webhookURL string, logger *zap.Logger) *ReviewNotifier {
	return &ReviewNotifier{
		submissions: submissions,
		ideas:       ideas,
		webhookURL:  webhookURL,
		httpClient:  &http.Client{Timeout: webhookTimeout},
		logger:      logger,
	}
}

// reviewNotification is the webhook payload.
type reviewNotification struct {
	Kind        string    `json:"kind"`
	ContentID   string    `json:"content_id"`
	Summary     string    `json:"summary"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ProcessJob handles a single queue message. The message is acked on success
// and on permanent failures; transient failures are nacked for redelivery
// until the retry budget runs out.
func (n *ReviewNotifier) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.Type != queue.JobTypeModerationReview {
		n.logger.Warn("unknown_job_type", zap.String("job_type", string(job.Type)))
		return msg.Ack()
	}

	notification, err := n.buildNotification(ctx, job)
	if err != nil {
		// The draft is gone (already moderated or rejected); nothing to do.
		n.logger.Info("review_job_content_missing",
			zap.String("content_kind", string(job.ContentKind)),
			zap.String("content_id", job.ContentID.String()),
		)
		return msg.Ack()
	}

	if err := n.deliver(ctx, notification); err != nil {
		job.IncrementRetry()
		if job.CanRetry() {
			n.logger.Warn("webhook_delivery_failed_retrying",
				zap.Error(err),
				zap.Int("retry_count", job.RetryCount),
			)
			return msg.Nack(true)
		}
		n.logger.Error("webhook_delivery_failed_giving_up",
			zap.Error(err),
			zap.String("content_id", job.ContentID.String()),
		)
		return msg.Nack(false)
	}

	n.logger.Info("review_notification_sent",
		zap.String("content_kind", string(job.ContentKind)),
		zap.String("content_id", job.ContentID.String()),
	)
	return msg.Ack()
}

func (n *ReviewNotifier) buildNotification(ctx context.Context, job *queue.Job) (*reviewNotification, error) {
	switch job.ContentKind {
	case queue.ContentKindSubmission:
		s, err := n.submissions.GetByID(ctx, job.ContentID)
		if err != nil {
			return nil, err
		}
		return &reviewNotification{
			Kind:        string(job.ContentKind),
			ContentID:   s.ID.String(),
			Summary:     fmt.Sprintf("%s - %s", s.Runner, s.Result),
			SubmittedAt: s.CreatedAt,
		}, nil
	case queue.ContentKindIdea:
		i, err := n.ideas.GetByID(ctx, job.ContentID)
		if err != nil {
			return nil, err
		}
		return &reviewNotification{
			Kind:        string(job.ContentKind),
			ContentID:   i.ID.String(),
			Summary:     fmt.Sprintf("[%s] %s", i.Type, i.Description),
			SubmittedAt: i.CreatedAt,
		}, nil
	default:
		return nil, fmt.Errorf("unknown content kind: %s", job.ContentKind)
	}
}

func (n *ReviewNotifier) deliver(ctx context.Context, notification *reviewNotification) error {
	if n.webhookURL == "" {
		n.logger.Info("pending_review",
			zap.String("kind", notification.Kind),
			zap.String("content_id", notification.ContentID),
			zap.String("summary", notification.Summary),
		)
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
