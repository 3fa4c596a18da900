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

// TournamentHandler handles tournament-related requests
type TournamentHandler struct {
	repo     database.TournamentStore
	resolver *content.Resolver
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(repo database.TournamentStore, resolver *content.Resolver) *TournamentHandler {
	return &TournamentHandler{repo: repo, resolver: resolver}
}

// RegisterRoutes registers public tournament routes on the given router.
func (h *TournamentHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{slug}", h.GetBySlug).Methods("GET")
}

// RegisterModerationRoutes registers the guarded write routes.
func (h *TournamentHandler) RegisterModerationRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateTournamentRequest represents a create tournament request
type CreateTournamentRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=200"`
	Slug        string     `json:"slug" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=10000"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Published   bool       `json:"published"`
}

// UpdateTournamentRequest represents a partial tournament update
type UpdateTournamentRequest struct {
	Name        *string    `json:"name,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Published   *bool      `json:"published,omitempty"`
}

// List returns published tournaments with pagination.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	tournaments, total, err := h.repo.ListPublished(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch tournaments",
			map[string]any{"error": err.Error()})
		return
	}

	respondPage(w, tournaments, page, pageSize, total)
}

// GetBySlug resolves a slug to a single published tournament. The attached
// challenge list comes back oldest first with each challenge's thumbnail and
// rules.
func (h *TournamentHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	tournament, err := content.ResolveSlug(r.Context(), h.resolver, content.TournamentType, slug, h.repo.FindBySlug)
	if err != nil {
		respondResolverError(w, err)
		return
	}

	respondData(w, http.StatusOK, tournament)
}

// Create creates a tournament.
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", err.Error(), nil)
		return
	}

	tournament := &models.Tournament{
		ID:          uuid.New(),
		Name:        validation.SanitizeText(req.Name),
		Slug:        validation.SanitizeText(req.Slug),
		Description: validation.SanitizeText(req.Description),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if req.Published {
		now := time.Now()
		tournament.PublishedAt = &now
	}

	if err := h.repo.Create(r.Context(), tournament); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to create tournament",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusCreated, tournament)
}

// Update applies a partial update to a tournament.
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid tournament ID", nil)
		return
	}

	var req UpdateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}

	tournament, err := h.repo.GetByID(r.Context(), id, false)
	if err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Tournament not found", nil)
		return
	}

	if req.Name != nil {
		tournament.Name = validation.SanitizeText(*req.Name)
	}
	if req.Slug != nil {
		tournament.Slug = validation.SanitizeText(*req.Slug)
	}
	if req.Description != nil {
		tournament.Description = validation.SanitizeText(*req.Description)
	}
	if req.StartsAt != nil {
		tournament.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		tournament.EndsAt = req.EndsAt
	}
	if req.Published != nil {
		if *req.Published && tournament.PublishedAt == nil {
			now := time.Now()
			tournament.PublishedAt = &now
		} else if !*req.Published {
			tournament.PublishedAt = nil
		}
	}

	if err := h.repo.Update(r.Context(), tournament); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to update tournament",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, tournament)
}

// Delete removes a tournament.
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid tournament ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Tournament not found", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
