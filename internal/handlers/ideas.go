package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/rushboard/challenge-api/internal/models"
	"github.com/rushboard/challenge-api/internal/queue"
	"github.com/rushboard/challenge-api/internal/request"
	"github.com/rushboard/challenge-api/internal/validation"
	"go.uber.org/zap"
)

// IdeaHandler handles community idea requests
type IdeaHandler struct {
	repo     database.IdeaStore
	jobQueue queue.JobQueue
	logger   *zap.Logger
}

// NewIdeaHandler creates a new idea handler. jobQueue may be nil when no
// message broker is configured.
func NewIdeaHandler(repo database.IdeaStore, jobQueue queue.JobQueue, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{repo: repo, jobQueue: jobQueue, logger: logger}
}

// RegisterRoutes registers the public idea route.
func (h *IdeaHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
}

// RegisterModerationRoutes registers the guarded moderation routes.
func (h *IdeaHandler) RegisterModerationRoutes(r *mux.Router) {
	r.HandleFunc("/pending", h.ListPending).Methods("GET")
	r.HandleFunc("/{id}/approve", h.Approve).Methods("POST")
	r.HandleFunc("/{id}", h.Reject).Methods("DELETE")
}

// CreateIdeaRequest represents a community idea
type CreateIdeaRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Create accepts a community idea. Like submissions, ideas are stored as
// drafts pending moderation.
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}

	if req.Type == "" || req.Description == "" {
		respondError(w, http.StatusBadRequest, "ValidationError",
			"Type and description are required", nil)
		return
	}
	if err := validation.ValidateIdeaType(req.Type); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", err.Error(), nil)
		return
	}

	clientIP := request.ClientIP(r)
	idea := &models.Idea{
		ID:          uuid.New(),
		Type:        models.IdeaType(req.Type),
		Description: validation.SanitizeText(req.Description),
		SubmitterIP: &clientIP,
		// PublishedAt stays nil: drafts only.
	}

	if err := h.repo.Create(r.Context(), idea); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to create idea",
			map[string]any{"error": err.Error()})
		return
	}

	if h.jobQueue != nil {
		job := queue.NewReviewJob(queue.ContentKindIdea, idea.ID)
		if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
			h.logger.Warn("failed_to_enqueue_review_job",
				zap.Error(err),
				zap.String("content_kind", string(queue.ContentKindIdea)),
				zap.String("content_id", idea.ID.String()),
			)
		}
	}

	idea.SubmitterIP = nil
	idea.ModeratorNote = nil
	respondData(w, http.StatusCreated, idea)
}

// ListPending returns draft ideas awaiting moderation.
func (h *IdeaHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	_, pageSize := parsePagination(r)

	pending, err := h.repo.ListPending(r.Context(), pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch pending ideas",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, pending)
}

// Approve publishes a draft idea.
func (h *IdeaHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid idea ID", nil)
		return
	}

	if err := h.repo.Publish(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Idea not found", nil)
		return
	}

	h.logger.Info("idea_approved", zap.String("idea_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Reject deletes a draft idea.
func (h *IdeaHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid idea ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Idea not found", nil)
		return
	}

	h.logger.Info("idea_rejected", zap.String("idea_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
