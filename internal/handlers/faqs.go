package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/rushboard/challenge-api/internal/models"
	"github.com/rushboard/challenge-api/internal/validation"
)

// FAQHandler handles FAQ requests
type FAQHandler struct {
	repo database.FAQStore
}

// NewFAQHandler creates a new FAQ handler
func NewFAQHandler(repo database.FAQStore) *FAQHandler {
	return &FAQHandler{repo: repo}
}

// RegisterRoutes registers the public FAQ route.
func (h *FAQHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
}

// RegisterModerationRoutes registers the guarded write routes.
func (h *FAQHandler) RegisterModerationRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateFAQRequest represents a create FAQ request
type CreateFAQRequest struct {
	Question  string `json:"question" validate:"required,min=1,max=1000"`
	Answer    string `json:"answer" validate:"required,min=1,max=10000"`
	Published bool   `json:"published"`
}

// UpdateFAQRequest represents a partial FAQ update
type UpdateFAQRequest struct {
	Question  *string `json:"question,omitempty"`
	Answer    *string `json:"answer,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// List returns all published FAQs in creation order.
func (h *FAQHandler) List(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.repo.ListPublished(r.Context())
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch FAQs",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, faqs)
}

// Create creates an FAQ.
func (h *FAQHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", err.Error(), nil)
		return
	}

	faq := &models.FAQ{
		ID:       uuid.New(),
		Question: validation.SanitizeText(req.Question),
		Answer:   validation.SanitizeText(req.Answer),
	}
	if req.Published {
		now := time.Now()
		faq.PublishedAt = &now
	}

	if err := h.repo.Create(r.Context(), faq); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to create FAQ",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusCreated, faq)
}

// Update applies a partial update to an FAQ.
func (h *FAQHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid FAQ ID", nil)
		return
	}

	var req UpdateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}

	faq, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "FAQ not found", nil)
		return
	}

	if req.Question != nil {
		faq.Question = validation.SanitizeText(*req.Question)
	}
	if req.Answer != nil {
		faq.Answer = validation.SanitizeText(*req.Answer)
	}
	if req.Published != nil {
		if *req.Published && faq.PublishedAt == nil {
			now := time.Now()
			faq.PublishedAt = &now
		} else if !*req.Published {
			faq.PublishedAt = nil
		}
	}

	if err := h.repo.Update(r.Context(), faq); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to update FAQ",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, faq)
}

// Delete removes an FAQ.
func (h *FAQHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid FAQ ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "FAQ not found", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
