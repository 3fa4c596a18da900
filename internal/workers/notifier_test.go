package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/models"
	"github.com/rushboard/challenge-api/internal/queue"
	"go.uber.org/zap"
)

type fakeSubmissionStore struct {
	submissions map[uuid.UUID]*models.Submission
}

func (f *fakeSubmissionStore) Create(ctx context.Context, s *models.Submission) error { return nil }

func (f *fakeSubmissionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, fmt.Errorf("submission not found")
	}
	return s, nil
}

func (f *fakeSubmissionStore) ListPending(ctx context.Context, limit int) ([]*models.Submission, error) {
	return nil, nil
}

func (f *fakeSubmissionStore) Publish(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeSubmissionStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeIdeaStore struct {
	ideas map[uuid.UUID]*models.Idea
}

func (f *fakeIdeaStore) Create(ctx context.Context, i *models.Idea) error { return nil }

func (f *fakeIdeaStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	i, ok := f.ideas[id]
	if !ok {
		return nil, fmt.Errorf("idea not found")
	}
	return i, nil
}

func (f *fakeIdeaStore) ListPending(ctx context.Context, limit int) ([]*models.Idea, error) {
	return nil, nil
}

func (f *fakeIdeaStore) Publish(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeIdeaStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeMessage struct {
	job    *queue.Job
	acked  atomic.Bool
	nacked atomic.Bool
	requeue atomic.Bool
}

func (m *fakeMessage) Ack() error {
	m.acked.Store(true)
	return nil
}

func (m *fakeMessage) Nack(requeue bool) error {
	m.nacked.Store(true)
	m.requeue.Store(requeue)
	return nil
}

func (m *fakeMessage) GetJob() *queue.Job { return m.job }

func TestProcessJobDeliversWebhook(t *testing.T) {
	t.Parallel()

	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["kind"] != "submission" {
			t.Errorf("kind = %v, want submission", payload["kind"])
		}
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sub := &models.Submission{ID: uuid.New(), Runner: "FastRunner", Result: "4:13.37"}
	subs := &fakeSubmissionStore{submissions: map[uuid.UUID]*models.Submission{sub.ID: sub}}

	n := NewReviewNotifier(subs, &fakeIdeaStore{}, srv.URL, zap.NewNop())
	msg := &fakeMessage{job: queue.NewReviewJob(queue.ContentKindSubmission, sub.ID)}

	if err := n.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}
	if received.Load() != 1 {
		t.Errorf("webhook calls = %d, want 1", received.Load())
	}
	if !msg.acked.Load() {
		t.Error("message should be acked after delivery")
	}
}

func TestProcessJobMissingContentAcks(t *testing.T) {
	t.Parallel()

	n := NewReviewNotifier(
		&fakeSubmissionStore{submissions: map[uuid.UUID]*models.Submission{}},
		&fakeIdeaStore{},
		"",
		zap.NewNop(),
	)
	msg := &fakeMessage{job: queue.NewReviewJob(queue.ContentKindSubmission, uuid.New())}

	if err := n.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}
	if !msg.acked.Load() {
		t.Error("missing content should ack, not requeue")
	}
}

func TestProcessJobWebhookFailureRequeues(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	idea := &models.Idea{ID: uuid.New(), Type: models.IdeaTypeChallenge, Description: "new idea"}
	ideas := &fakeIdeaStore{ideas: map[uuid.UUID]*models.Idea{idea.ID: idea}}

	n := NewReviewNotifier(&fakeSubmissionStore{}, ideas, srv.URL, zap.NewNop())
	msg := &fakeMessage{job: queue.NewReviewJob(queue.ContentKindIdea, idea.ID)}

	if err := n.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}
	if !msg.nacked.Load() || !msg.requeue.Load() {
		t.Error("transient webhook failure should nack with requeue")
	}
}

func TestProcessJobRetryBudgetExhausted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	idea := &models.Idea{ID: uuid.New(), Type: models.IdeaTypeChallenge, Description: "new idea"}
	ideas := &fakeIdeaStore{ideas: map[uuid.UUID]*models.Idea{idea.ID: idea}}

	n := NewReviewNotifier(&fakeSubmissionStore{}, ideas, srv.URL, zap.NewNop())
	job := queue.NewReviewJob(queue.ContentKindIdea, idea.ID)
	job.RetryCount = job.MaxRetries
	msg := &fakeMessage{job: job}

	if err := n.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob: %v", err)
	}
	if !msg.nacked.Load() || msg.requeue.Load() {
		t.Error("exhausted retries should nack without requeue (dead letter)")
	}
}
