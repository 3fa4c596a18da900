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

// CreatorHandler handles creator-related requests
type CreatorHandler struct {
	repo     database.CreatorStore
	resolver *content.Resolver
}

// NewCreatorHandler creates a new creator handler
func NewCreatorHandler(repo database.CreatorStore, resolver *content.Resolver) *CreatorHandler {
	return &CreatorHandler{repo: repo, resolver: resolver}
}

// RegisterRoutes registers public creator routes on the given router.
func (h *CreatorHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{slug}", h.GetBySlug).Methods("GET")
}

// RegisterModerationRoutes registers the guarded write routes.
func (h *CreatorHandler) RegisterModerationRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateCreatorRequest represents a create creator request
type CreateCreatorRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=200"`
	Slug       string  `json:"slug" validate:"required,min=1,max=200"`
	Bio        *string `json:"bio,omitempty"`
	ChannelURL *string `json:"channel_url,omitempty"`
	Published  bool    `json:"published"`
}

// UpdateCreatorRequest represents a partial creator update
type UpdateCreatorRequest struct {
	Name       *string `json:"name,omitempty"`
	Slug       *string `json:"slug,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	ChannelURL *string `json:"channel_url,omitempty"`
	Published  *bool   `json:"published,omitempty"`
}

// List returns published creators with pagination.
func (h *CreatorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	creators, total, err := h.repo.ListPublished(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch creators",
			map[string]any{"error": err.Error()})
		return
	}

	respondPage(w, creators, page, pageSize, total)
}

// GetBySlug resolves a slug to a single published creator with their content.
func (h *CreatorHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	creator, err := content.ResolveSlug(r.Context(), h.resolver, content.CreatorType, slug, h.repo.FindBySlug)
	if err != nil {
		respondResolverError(w, err)
		return
	}

	respondData(w, http.StatusOK, creator)
}

// Create creates a creator.
func (h *CreatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCreatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", err.Error(), nil)
		return
	}
	if req.ChannelURL != nil {
		if err := validation.ValidateURL(*req.ChannelURL); err != nil {
			respondError(w, http.StatusBadRequest, "ValidationError", "Invalid channel URL format", nil)
			return
		}
	}

	creator := &models.Creator{
		ID:         uuid.New(),
		Name:       validation.SanitizeText(req.Name),
		Slug:       validation.SanitizeText(req.Slug),
		Bio:        req.Bio,
		ChannelURL: req.ChannelURL,
	}
	if req.Published {
		now := time.Now()
		creator.PublishedAt = &now
	}

	if err := h.repo.Create(r.Context(), creator); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to create creator",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusCreated, creator)
}

// Update applies a partial update to a creator.
func (h *CreatorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid creator ID", nil)
		return
	}

	var req UpdateCreatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}

	creator, err := h.repo.GetByID(r.Context(), id, false)
	if err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Creator not found", nil)
		return
	}

	if req.Name != nil {
		creator.Name = validation.SanitizeText(*req.Name)
	}
	if req.Slug != nil {
		creator.Slug = validation.SanitizeText(*req.Slug)
	}
	if req.Bio != nil {
		creator.Bio = req.Bio
	}
	if req.ChannelURL != nil {
		if err := validation.ValidateURL(*req.ChannelURL); err != nil {
			respondError(w, http.StatusBadRequest, "ValidationError", "Invalid channel URL format", nil)
			return
		}
		creator.ChannelURL = req.ChannelURL
	}
	if req.Published != nil {
		if *req.Published && creator.PublishedAt == nil {
			now := time.Now()
			creator.PublishedAt = &now
		} else if !*req.Published {
			creator.PublishedAt = nil
		}
	}

	if err := h.repo.Update(r.Context(), creator); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to update creator",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, creator)
}

// Delete removes a creator.
func (h *CreatorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid creator ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Creator not found", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
