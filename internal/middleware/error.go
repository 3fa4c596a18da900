package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// apiError is the error payload shared by every non-2xx response the service
// emits, mirroring the envelope the frontend already consumes.
type apiError struct {
	Status  int            `json:"status"`
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

// writeError sends a JSON error envelope.
func writeError(w http.ResponseWriter, status int, name, message string, details map[string]any, logger *zap.Logger) {
	if details == nil {
		details = map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := errorEnvelope{Error: apiError{
		Status:  status,
		Name:    name,
		Message: message,
		Details: details,
	}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status_code", status),
		)
	}
}

// ErrorHandler creates error handling middleware
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Log panic details server-side but don't expose to client
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					writeError(w, http.StatusInternalServerError, "InternalServerError", "An unexpected error occurred", nil, logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
