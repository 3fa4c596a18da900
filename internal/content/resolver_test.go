package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rushboard/challenge-api/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func challengeWithSlug(slug string) *models.Challenge {
	ip := "203.0.113.9"
	return &models.Challenge{
		ID:   uuid.New(),
		Slug: slug,
		Submissions: []models.Submission{
			{ID: uuid.New(), Runner: "runner", SubmitterIP: &ip},
		},
	}
}

func findReturning(records []*models.Challenge, err error) FindFunc[*models.Challenge] {
	return func(ctx context.Context, q Query) ([]*models.Challenge, error) {
		return records, err
	}
}

func TestResolveSlugEmptySlug(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())
	called := false
	find := func(ctx context.Context, q Query) ([]*models.Challenge, error) {
		called = true
		return nil, nil
	}

	for _, slug := range []string{"", "   ", "\t"} {
		if _, err := ResolveSlug(context.Background(), r, ChallengeType, slug, find); !errors.Is(err, ErrSlugRequired) {
			t.Errorf("slug %q: err = %v, want ErrSlugRequired", slug, err)
		}
	}
	if called {
		t.Error("store should not be queried for an empty slug")
	}
}

func TestResolveSlugNotFound(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())
	_, err := ResolveSlug(context.Background(), r, ChallengeType, "missing", findReturning(nil, nil))

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Type != "Challenge" {
		t.Errorf("Type = %q, want Challenge", nf.Type)
	}
}

func TestResolveSlugSingleMatchSanitized(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())
	ch := challengeWithSlug("speedrun-any")

	got, err := ResolveSlug(context.Background(), r, ChallengeType, "speedrun-any", findReturning([]*models.Challenge{ch}, nil))
	if err != nil {
		t.Fatalf("ResolveSlug: %v", err)
	}
	if got.ID != ch.ID {
		t.Errorf("ID = %s, want %s", got.ID, ch.ID)
	}
	if got.Submissions[0].SubmitterIP != nil {
		t.Error("submitter IP should be scrubbed from resolved records")
	}
}

func TestResolveSlugCollisionReturnsFirstAndWarns(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	r := NewResolver(zap.New(core))

	first := challengeWithSlug("dup")
	second := challengeWithSlug("dup")

	got, err := ResolveSlug(context.Background(), r, ChallengeType, "dup", findReturning([]*models.Challenge{first, second}, nil))
	if err != nil {
		t.Fatalf("ResolveSlug: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("collision should resolve to the first record, got %s", got.ID)
	}

	entries := logs.FilterMessage("duplicate_published_slug").All()
	if len(entries) != 1 {
		t.Fatalf("warn entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["slug"] != "dup" {
		t.Errorf("slug field = %v, want dup", fields["slug"])
	}
	switch ids := fields["ids"].(type) {
	case []string:
		if len(ids) != 2 {
			t.Errorf("ids = %v, want both colliding ids", ids)
		}
	case []any:
		if len(ids) != 2 {
			t.Errorf("ids = %v, want both colliding ids", ids)
		}
	default:
		t.Errorf("ids field has unexpected type %T", fields["ids"])
	}
}

func TestResolveSlugStoreError(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())
	boom := errors.New("connection refused")

	_, err := ResolveSlug(context.Background(), r, CreatorType, "someone", findReturning(nil, boom))

	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StoreError", err)
	}
	if se.Type != "Creator" {
		t.Errorf("Type = %q, want Creator", se.Type)
	}
	if !errors.Is(err, boom) {
		t.Error("StoreError should wrap the underlying store failure")
	}
}

func TestResolveSlugTimeout(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop(), WithTimeout(10*time.Millisecond))
	find := func(ctx context.Context, q Query) ([]*models.Challenge, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := ResolveSlug(context.Background(), r, ChallengeType, "slow", find)

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TimeoutError", err)
	}
}

func TestResolveSlugPassesTypeConfig(t *testing.T) {
	t.Parallel()

	r := NewResolver(zap.NewNop())
	var seen Query
	find := func(ctx context.Context, q Query) ([]*models.Challenge, error) {
		seen = q
		return []*models.Challenge{challengeWithSlug("q")}, nil
	}

	if _, err := ResolveSlug(context.Background(), r, ChallengeType, "q", find); err != nil {
		t.Fatalf("ResolveSlug: %v", err)
	}
	if !seen.PublishedOnly {
		t.Error("public reads must be restricted to published records")
	}
	if len(seen.Populate) != len(ChallengeType.Relations) {
		t.Errorf("populate = %v, want the challenge relation set", seen.Populate)
	}
}
