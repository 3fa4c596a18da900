package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	logpkg "github.com/rushboard/challenge-api/internal/logger"
	"github.com/rushboard/challenge-api/internal/ratelimit"
	"github.com/rushboard/challenge-api/internal/request"
	"go.uber.org/zap"
)

// categoryFor maps a request path to its rate-limit category. Matching is by
// substring so versioned prefixes and trailing segments hit the same rule.
func categoryFor(path string) string {
	switch {
	case strings.Contains(path, "/submissions"):
		return "submission"
	case strings.Contains(path, "/ideas"):
		return "idea"
	}
	return ""
}

// RateLimit enforces per-client fixed-window limits on the abuse-prone write
// endpoints. Only POST requests count against a window; reads pass through
// untouched, as do writes to paths with no configured category.
func RateLimit(limiter *ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			category := categoryFor(r.URL.Path)
			if category == "" {
				next.ServeHTTP(w, r)
				return
			}

			clientID := request.ClientIP(r)
			d := limiter.Allow(category, clientID)
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(d.RetryAfter.Seconds())
			logger.Warn("rate_limit_exceeded",
				zap.String("category", category),
				zap.String("client_id", logpkg.SanitizeString(clientID, logpkg.MaxGeneralStringLength)),
				zap.Int("retry_after_seconds", retryAfter),
			)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "RateLimitError",
				fmt.Sprintf("Too many %ss. Please try again later.", category),
				map[string]any{"retryAfter": retryAfter},
				logger,
			)
		})
	}
}
