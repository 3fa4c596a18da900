package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/content"
	"github.com/rushboard/challenge-api/internal/models"
	"github.com/rushboard/challenge-api/internal/queue"
)

// jsonBody marshals v into a request body.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

// In-memory store fakes used across the handler tests.

type fakeChallengeStore struct {
	bySlug  map[string][]*models.Challenge
	byID    map[uuid.UUID]*models.Challenge
	findErr error
	created []*models.Challenge
	deleted []uuid.UUID
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{
		bySlug: make(map[string][]*models.Challenge),
		byID:   make(map[uuid.UUID]*models.Challenge),
	}
}

func (f *fakeChallengeStore) add(c *models.Challenge) {
	f.bySlug[c.Slug] = append(f.bySlug[c.Slug], c)
	f.byID[c.ID] = c
}

func (f *fakeChallengeStore) FindBySlug(ctx context.Context, q content.Query) ([]*models.Challenge, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.bySlug[q.Slug], nil
}

func (f *fakeChallengeStore) GetByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*models.Challenge, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("challenge not found")
	}
	return c, nil
}

func (f *fakeChallengeStore) ListPublished(ctx context.Context, page, pageSize int) ([]*models.Challenge, int, error) {
	var out []*models.Challenge
	for _, c := range f.byID {
		if c.PublishedAt != nil {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (f *fakeChallengeStore) Create(ctx context.Context, c *models.Challenge) error {
	f.created = append(f.created, c)
	f.add(c)
	return nil
}

func (f *fakeChallengeStore) Update(ctx context.Context, c *models.Challenge) error {
	if _, ok := f.byID[c.ID]; !ok {
		return fmt.Errorf("challenge not found")
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeChallengeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return fmt.Errorf("challenge not found")
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSubmissionStore struct {
	created   []*models.Submission
	published []uuid.UUID
	deleted   []uuid.UUID
	createErr error
}

func (f *fakeSubmissionStore) Create(ctx context.Context, s *models.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSubmissionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("submission not found")
}

func (f *fakeSubmissionStore) ListPending(ctx context.Context, limit int) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, s := range f.created {
		if s.PublishedAt == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) Publish(ctx context.Context, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeSubmissionStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeIdeaStore struct {
	created   []*models.Idea
	published []uuid.UUID
	deleted   []uuid.UUID
}

func (f *fakeIdeaStore) Create(ctx context.Context, i *models.Idea) error {
	f.created = append(f.created, i)
	return nil
}

func (f *fakeIdeaStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	for _, i := range f.created {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, fmt.Errorf("idea not found")
}

func (f *fakeIdeaStore) ListPending(ctx context.Context, limit int) ([]*models.Idea, error) {
	return f.created, nil
}

func (f *fakeIdeaStore) Publish(ctx context.Context, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeIdeaStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStatsStore struct {
	stats *models.StatsOverview
	err   error
}

func (f *fakeStatsStore) Overview(ctx context.Context) (*models.StatsOverview, error) {
	return f.stats, f.err
}

type fakeQueue struct {
	enqueued   []*queue.Job
	enqueueErr error
}

func (f *fakeQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

func (f *fakeQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, fmt.Errorf("not implemented")
}

func (f *fakeQueue) Close() error { return nil }

func (f *fakeQueue) HealthCheck(ctx context.Context) error { return nil }
