package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rushboard/challenge-api/internal/services/auth"
	"go.uber.org/zap"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ModerateScope is the token scope required for moderation endpoints.
const ModerateScope = "content:moderate"

// ClaimsFromContext extracts verified token claims from the request context.
func ClaimsFromContext(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireModerator guards moderation endpoints: the request must carry a
// valid bearer token whose scope includes ModerateScope.
func RequireModerator(verifier auth.TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "UnauthorizedError", "Missing Authorization header", nil, logger)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "UnauthorizedError", "Invalid Authorization header format", nil, logger)
				return
			}

			claims, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				logger.Warn("token_verification_failed", zap.Error(err))
				writeError(w, http.StatusUnauthorized, "UnauthorizedError", "Invalid or expired token", nil, logger)
				return
			}

			if !claims.HasScope(ModerateScope) {
				writeError(w, http.StatusForbidden, "ForbiddenError", "Insufficient scope", nil, logger)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
