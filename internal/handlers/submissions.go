package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rushboard/challenge-api/internal/content"
	"github.com/rushboard/challenge-api/internal/database"
	"github.com/rushboard/challenge-api/internal/models"
	"github.com/rushboard/challenge-api/internal/queue"
	"github.com/rushboard/challenge-api/internal/request"
	"github.com/rushboard/challenge-api/internal/validation"
	"go.uber.org/zap"
)

// SubmissionHandler handles run submissions
type SubmissionHandler struct {
	repo       database.SubmissionStore
	challenges database.ChallengeStore
	jobQueue   queue.JobQueue
	logger     *zap.Logger
}

// NewSubmissionHandler creates a new submission handler. jobQueue may be nil
// when no message broker is configured; review notifications are then skipped.
func NewSubmissionHandler(repo database.SubmissionStore, challenges database.ChallengeStore, jobQueue queue.JobQueue, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		repo:       repo,
		challenges: challenges,
		jobQueue:   jobQueue,
		logger:     logger,
	}
}

// RegisterRoutes registers the public submission route.
func (h *SubmissionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
}

// RegisterModerationRoutes registers the guarded moderation routes.
func (h *SubmissionHandler) RegisterModerationRoutes(r *mux.Router) {
	r.HandleFunc("/pending", h.ListPending).Methods("GET")
	r.HandleFunc("/{id}/approve", h.Approve).Methods("POST")
	r.HandleFunc("/{id}", h.Reject).Methods("DELETE")
}

// CreateSubmissionRequest represents a run submission
type CreateSubmissionRequest struct {
	Runner    string  `json:"runner"`
	RunnerURL *string `json:"runner_url,omitempty"`
	Challenge string  `json:"challenge"`
	VideoURL  string  `json:"video_url"`
	Result    string  `json:"result"`
	Note      *string `json:"note,omitempty"`
}

// Create accepts a run submission from the public site. The record always
// starts as a draft; nothing becomes visible until a moderator publishes it.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid request body", nil)
		return
	}

	if req.Runner == "" || req.Challenge == "" || req.VideoURL == "" || req.Result == "" {
		respondError(w, http.StatusBadRequest, "ValidationError",
			"Runner name, challenge, video URL, and result are required", nil)
		return
	}

	if err := validation.ValidateURL(req.VideoURL); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid video URL format", nil)
		return
	}
	if req.RunnerURL != nil && *req.RunnerURL != "" {
		if err := validation.ValidateURL(*req.RunnerURL); err != nil {
			respondError(w, http.StatusBadRequest, "ValidationError", "Invalid runner URL format", nil)
			return
		}
	}

	// The referenced challenge must exist before anything is stored.
	challengeID, err := uuid.Parse(req.Challenge)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Challenge not found", nil)
		return
	}
	if _, err := h.challenges.GetByID(r.Context(), challengeID, false); err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Challenge not found", nil)
		return
	}

	clientIP := request.ClientIP(r)
	submission := &models.Submission{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		Runner:      validation.SanitizeText(req.Runner),
		RunnerURL:   req.RunnerURL,
		VideoURL:    req.VideoURL,
		Result:      validation.SanitizeText(req.Result),
		Note:        req.Note,
		SubmitterIP: &clientIP,
		// PublishedAt stays nil: drafts only.
	}

	if err := h.repo.Create(r.Context(), submission); err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to create submission",
			map[string]any{"error": err.Error()})
		return
	}

	h.enqueueReview(r, queue.ContentKindSubmission, submission.ID)

	content.ScrubSubmission(submission)
	respondData(w, http.StatusCreated, submission)
}

// enqueueReview notifies the moderation worker about a new draft. Queue
// failures are logged and swallowed: the submission is already stored and
// moderators can still find it via the pending list.
func (h *SubmissionHandler) enqueueReview(r *http.Request, kind queue.ContentKind, id uuid.UUID) {
	if h.jobQueue == nil {
		return
	}
	job := queue.NewReviewJob(kind, id)
	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		h.logger.Warn("failed_to_enqueue_review_job",
			zap.Error(err),
			zap.String("content_kind", string(kind)),
			zap.String("content_id", id.String()),
		)
	}
}

// ListPending returns draft submissions awaiting moderation.
func (h *SubmissionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	_, pageSize := parsePagination(r)

	pending, err := h.repo.ListPending(r.Context(), pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "BadRequestError", "Failed to fetch pending submissions",
			map[string]any{"error": err.Error()})
		return
	}

	respondData(w, http.StatusOK, pending)
}

// Approve publishes a draft submission.
func (h *SubmissionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid submission ID", nil)
		return
	}

	if err := h.repo.Publish(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Submission not found", nil)
		return
	}

	h.logger.Info("submission_approved", zap.String("submission_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Reject deletes a draft submission.
func (h *SubmissionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "ValidationError", "Invalid submission ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "NotFoundError", "Submission not found", nil)
		return
	}

	h.logger.Info("submission_rejected", zap.String("submission_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
