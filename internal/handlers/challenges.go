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

// ChallengeHandler handles challenge-related requests
type ChallengeHandler struct {
	repo     database.ChallengeStore
	resolver *content.Resolver
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(repo database.ChallengeStore, resolver *content.Resolver) *ChallengeHandler {
	return &ChallengeHandler{repo: repo, resolver: resolver}
}

// RegisterRoutes registers public challenge routes on the given router.
// The router should already carry the /challenges prefix.
func (h *ChallengeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{slug}", h.GetBySlug).Methods("GET")
}

// RegisterModerationRoutes registers the guarded write routes.
func (h *ChallengeHandler) RegisterModerationRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateChallengeRequest represents a create challenge request
type CreateChallengeRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Slug        string  `json:"slug" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=10000"`
	Difficulty  *string `json:"difficulty,omitempty"`
	Published   bool    `json:"published"`
}

// UpdateChallengeRequest represents a partial challenge update
type UpdateChallengeRequest struct {
	Title       *string `json:"title,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

// List returns published challenges with pagination.
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	challenges, total, err := h.repo.ListPublished(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch challenges",
			map[string]any{"error": err.Error()})
		return
	}

	respondPage(w, challenges, page, pageSize, total)
}

// GetBySlug resolves a slug to a single published challenge with its full
// relation set.
func (h *ChallengeHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	challenge, err := content.ResolveSlug(r.Context(), h.resolver, content.ChallengeType, slug, h.repo.FindBySlug)
	if err != nil {
		respondResolverError(w, err)
		return
	}

	respondData(w, http.StatusOK, challenge)
}

// Create creates a challenge.
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", err.Error(), nil)
		return
	}

	challenge := &models.Challenge{
		ID:          uuid.New(),
		Title:       validation.SanitizeText(req.Title),
		Slug:        validation.SanitizeText(req.Slug),
		Description: validation.SanitizeText(req.Description),
		Difficulty:  req.Difficulty,
	}
	if req.Published {
		now := time.Now()
		challenge.PublishedAt = &now
	}

	if err := h.repo.Create(r.Context(), challenge); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to create challenge",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusCreated, challenge)
}

// Update applies a partial update to a challenge.
func (h *ChallengeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid challenge ID", nil)
		return
	}

	var req UpdateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}

	challenge, err := h.repo.GetByID(r.Context(), id, false)
	if err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Challenge not found", nil)
		return
	}

	if req.Title != nil {
		challenge.Title = validation.SanitizeText(*req.Title)
	}
	if req.Slug != nil {
		challenge.Slug = validation.SanitizeText(*req.Slug)
	}
	if req.Description != nil {
		challenge.Description = validation.SanitizeText(*req.Description)
	}
	if req.Difficulty != nil {
		challenge.Difficulty = req.Difficulty
	}
	if req.Published != nil {
		if *req.Published && challenge.PublishedAt == nil {
			now := time.Now()
			challenge.PublishedAt = &now
		} else if !*req.Published {
			challenge.PublishedAt = nil
		}
	}

	if err := h.repo.Update(r.Context(), challenge); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to update challenge",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, challenge)
}

// Delete removes a challenge.
func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid challenge ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Challenge not found", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
