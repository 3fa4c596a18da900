package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultStoreTimeout = 5 * time.Second

// Resolver resolves human-facing slugs to exactly one published record. It is
// stateless per request; a single instance serves all content types.
type Resolver struct {
	log       *zap.Logger
	sanitizer Sanitizer
	timeout   time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTimeout bounds each store call. Zero or negative values keep the default.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithSanitizer replaces the default output sanitizer.
func WithSanitizer(s Sanitizer) ResolverOption {
	return func(r *Resolver) {
		if s != nil {
			r.sanitizer = s
		}
	}
}

// NewResolver creates a resolver. The logger receives the slug-collision
// diagnostics; it must not be nil.
func NewResolver(log *zap.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		log:       log,
		sanitizer: DefaultSanitizer{},
		timeout:   defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindFunc fetches all records matching a slug query, in the store's natural
// return order.
type FindFunc[T Record] func(ctx context.Context, q Query) ([]T, error)

// ResolveSlug resolves slug to a single sanitized record of the configured
// type.
//
// An empty slug fails immediately without touching the store. Zero matches is
// a NotFoundError. Multiple matches are a data-integrity anomaly, not a hard
// failure: the first record in store order is returned and a warning names the
// colliding identities so operators can deduplicate out-of-band.
func ResolveSlug[T Record](ctx context.Context, r *Resolver, cfg TypeConfig, slug string, find FindFunc[T]) (T, error) {
	var zero T

	if strings.TrimSpace(slug) == "" {
		return zero, ErrSlugRequired
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := find(ctx, Query{
		Slug:          slug,
		PublishedOnly: cfg.PublishedOnly,
		Populate:      cfg.Relations,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return zero, &TimeoutError{Type: cfg.Name}
		}
		return zero, &StoreError{Type: cfg.Name, Err: err}
	}

	if len(records) == 0 {
		return zero, &NotFoundError{Type: cfg.Name}
	}

	if len(records) > 1 {
		ids := make([]string, len(records))
		for i, rec := range records {
			ids[i] = rec.RecordID().String()
		}
		r.log.Warn("duplicate_published_slug",
			zap.String("type", cfg.Name),
			zap.String("slug", slug),
			zap.Strings("ids", ids),
		)
	}

	record := records[0]
	r.sanitizer.Sanitize(record)
	return record, nil
}
