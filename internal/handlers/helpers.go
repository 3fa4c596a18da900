package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rushboard/challenge-api/internal/content"
)

const (
	// DefaultPageSize is the default page size for pagination
	DefaultPageSize = 25
	// MaxPageSize is the maximum page size for pagination
	MaxPageSize = 100
)

// envelope is the success wrapper every endpoint responds with.
type envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta"`
}

// respondData sends a JSON success envelope with empty meta.
func respondData(w http.ResponseWriter, status int, data any) {
	respondMeta(w, status, data, map[string]any{})
}

// respondPage sends a JSON success envelope with pagination meta.
func respondPage(w http.ResponseWriter, data any, page, pageSize, total int) {
	pageCount := 0
	if pageSize > 0 {
		pageCount = (total + pageSize - 1) / pageSize
	}
	respondMeta(w, http.StatusOK, data, map[string]any{
		"pagination": map[string]any{
			"page":      page,
			"pageSize":  pageSize,
			"pageCount": pageCount,
			"total":     total,
		},
	})
}

func respondMeta(w http.ResponseWriter, status int, data any, meta map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Data: data, Meta: meta}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError sends a JSON error envelope.
func respondError(w http.ResponseWriter, status int, name, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"error": map[string]any{
			"status":  status,
			"name":    name,
			"message": message,
			"details": details,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondResolverError maps slug-resolution failures onto HTTP responses.
func respondResolverError(w http.ResponseWriter, err error) {
	var notFound *content.NotFoundError
	var timeout *content.TimeoutError
	var storeErr *content.StoreError

	switch {
	case errors.Is(err, content.ErrSlugRequired):
		respondError(w, http.StatusBadRequest, "ValidationError", "Slug parameter is required", nil)
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, "NotFoundError", notFound.Error(), nil)
	case errors.As(err, &timeout):
		respondError(w, http.StatusGatewayTimeout, "TimeoutError", timeout.Error(), nil)
	case errors.As(err, &storeErr):
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch "+storeErr.Type,
			map[string]any{"error": storeErr.Err.Error()})
	default:
		respondError(w, http.StatusInternalServerError, "InternalServerError", "An unexpected error occurred", nil)
	}
}

// parsePagination reads page/pageSize query parameters with bounds applied.
func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize = DefaultPageSize
	if ps := r.URL.Query().Get("pageSize"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 {
			pageSize = parsed
			if pageSize > MaxPageSize {
				pageSize = MaxPageSize
			}
		}
	}
	return page, pageSize
}
