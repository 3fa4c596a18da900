package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rushboard/challenge-api/internal/content"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/rushboard/challenge-api/internal/models"
	"github.com/rushboard/challenge-api/internal/validation"
)

// CustomCodeHandler handles custom code requests
type CustomCodeHandler struct {
	repo     database.CustomCodeStore
	resolver *content.Resolver
}

// NewCustomCodeHandler creates a new custom code handler
func NewCustomCodeHandler(repo database.CustomCodeStore, resolver *content.Resolver) *CustomCodeHandler {
	return &CustomCodeHandler{repo: repo, resolver: resolver}
}

// RegisterRoutes registers public custom code routes on the given router.
func (h *CustomCodeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{slug}", h.GetBySlug).Methods("GET")
}

// RegisterModerationRoutes registers the guarded write routes.
func (h *CustomCodeHandler) RegisterModerationRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateCustomCodeRequest represents a create custom code request
type CreateCustomCodeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Slug        string `json:"slug" validate:"required,min=1,max=200"`
	Code        string `json:"code" validate:"required,min=1,max=500"`
	Description string `json:"description" validate:"max=10000"`
	Published   bool   `json:"published"`
}

// UpdateCustomCodeRequest represents a partial custom code update
type UpdateCustomCodeRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

// List returns published custom codes with pagination.
func (h *CustomCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	codes, total, err := h.repo.ListPublished(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch custom codes",
			map[string]any{"error": err.Error()})
		return
	}

	respondPage(w, codes, page, pageSize, total)
}

// GetBySlug resolves a slug to a single published custom code.
func (h *CustomCodeHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	code, err := content.ResolveSlug(r.Context(), h.resolver, content.CustomCodeType, slug, h.repo.FindBySlug)
	if err != nil {
		respondResolverError(w, err)
		return
	}

	respondData(w, http.StatusOK, code)
}

// Create creates a custom code.
func (h *CustomCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", err.Error(), nil)
		return
	}

	code := &models.CustomCode{
		ID:          uuid.New(),
		Name:        validation.SanitizeText(req.Name),
		Slug:        validation.SanitizeText(req.Slug),
		Code:        validation.SanitizeText(req.Code),
		Description: validation.SanitizeText(req.Description),
	}
	if req.Published {
		now := time.Now()
		code.PublishedAt = &now
	}

	if err := h.repo.Create(r.Context(), code); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to create custom code",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusCreated, code)
}

// Update applies a partial update to a custom code.
func (h *CustomCodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid custom code ID", nil)
		return
	}

	var req UpdateCustomCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}

	code, err := h.repo.GetByID(r.Context(), id, false)
	if err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Custom code not found", nil)
		return
	}

	if req.Name != nil {
		code.Name = validation.SanitizeText(*req.Name)
	}
	if req.Slug != nil {
		code.Slug = validation.SanitizeText(*req.Slug)
	}
	if req.Code != nil {
		code.Code = validation.SanitizeText(*req.Code)
	}
	if req.Description != nil {
		code.Description = validation.SanitizeText(*req.Description)
	}
	if req.Published != nil {
		if *req.Published && code.PublishedAt == nil {
			now := time.Now()
			code.PublishedAt = &now
		} else if !*req.Published {
			code.PublishedAt = nil
		}
	}

	if err := h.repo.Update(r.Context(), code); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to update custom code",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, code)
}

// Delete removes a custom code.
func (h *CustomCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid custom code ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Custom code not found", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
