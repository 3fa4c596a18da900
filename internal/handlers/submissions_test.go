package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rushboard/challenge-api/internal/models"
	"github.com/rushboard/challenge-api/internal/queue"
	"go.uber.org/zap"
)

func newSubmissionRouter(subs *fakeSubmissionStore, challenges *fakeChallengeStore, q *fakeQueue) *mux.Router {
	h := NewSubmissionHandler(subs, challenges, q, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/submissions").Subrouter())
	return r
}

func validSubmissionBody(t *testing.T, challengeID string) map[string]any {
	t.Helper()
	return map[string]any{
		"runner":    "FastRunner",
		"challenge": challengeID,
		"video_url": "https://www.youtube.com/watch?v=abc123",
		"result":    "4:13.37",
	}
}

func TestCreateSubmission(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore()
	ch := publishedChallenge("some-challenge")
	challenges.add(ch)
	subs := &fakeSubmissionStore{}
	q := &fakeQueue{}

	r := newSubmissionRouter(subs, challenges, q)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/submissions", jsonBody(t, validSubmissionBody(t, ch.ID.String())))
	req.RemoteAddr = "203.0.113.5:1234"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	if len(subs.created) != 1 {
		t.Fatalf("created count = %d, want 1", len(subs.created))
	}
	stored := subs.created[0]
	if stored.PublishedAt != nil {
		t.Error("submission must be stored as a draft")
	}
	if stored.SubmitterIP == nil || *stored.SubmitterIP != "203.0.113.5" {
		t.Errorf("SubmitterIP = %v, want 203.0.113.5", stored.SubmitterIP)
	}

	// The response must not leak the submitter IP.
	var body struct {
		Data models.Submission `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.SubmitterIP != nil {
		t.Error("response must not include submitter_ip")
	}

	if len(q.enqueued) != 1 {
		t.Fatalf("enqueued count = %d, want 1", len(q.enqueued))
	}
	job := q.enqueued[0]
	if job.Type != queue.JobTypeModerationReview || job.ContentKind != queue.ContentKindSubmission {
		t.Errorf("job = %s/%s, want moderation_review/submission", job.Type, job.ContentKind)
	}
	if job.ContentID != stored.ID {
		t.Errorf("job.ContentID = %s, want %s", job.ContentID, stored.ID)
	}
}

func TestCreateSubmissionMissingFields(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore()
	ch := publishedChallenge("some-challenge")
	challenges.add(ch)

	tests := []struct {
		name  string
		strip string
	}{
		{"missing runner", "runner"},
		{"missing challenge", "challenge"},
		{"missing video url", "video_url"},
		{"missing result", "result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			subs := &fakeSubmissionStore{}
			r := newSubmissionRouter(subs, challenges, &fakeQueue{})

			body := validSubmissionBody(t, ch.ID.String())
			delete(body, tt.strip)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("POST", "/api/submissions", jsonBody(t, body)))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			_, _, message := decodeError(t, w)
			if want := "Runner name, challenge, video URL, and result are required"; message != want {
				t.Errorf("message = %q, want %q", message, want)
			}
			if len(subs.created) != 0 {
				t.Error("nothing should be stored on validation failure")
			}
		})
	}
}

func TestCreateSubmissionInvalidVideoURL(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore()
	ch := publishedChallenge("some-challenge")
	challenges.add(ch)
	subs := &fakeSubmissionStore{}

	r := newSubmissionRouter(subs, challenges, &fakeQueue{})
	body := validSubmissionBody(t, ch.ID.String())
	body["video_url"] = "not a url"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/submissions", jsonBody(t, body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	_, _, message := decodeError(t, w)
	if message != "Invalid video URL format" {
		t.Errorf("message = %q, want %q", message, "Invalid video URL format")
	}
}

func TestCreateSubmissionInvalidRunnerURL(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore()
	ch := publishedChallenge("some-challenge")
	challenges.add(ch)

	r := newSubmissionRouter(&fakeSubmissionStore{}, challenges, &fakeQueue{})
	body := validSubmissionBody(t, ch.ID.String())
	body["runner_url"] = "javascript:alert(1)"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/submissions", jsonBody(t, body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	_, _, message := decodeError(t, w)
	if message != "Invalid runner URL format" {
		t.Errorf("message = %q, want %q", message, "Invalid runner URL format")
	}
}

func TestCreateSubmissionUnknownChallenge(t *testing.T) {
	t.Parallel()

	subs := &fakeSubmissionStore{}
	r := newSubmissionRouter(subs, newFakeChallengeStore(), &fakeQueue{})

	// Well-formed UUID that matches nothing.
	body := validSubmissionBody(t, "7b1a3f64-0000-4000-8000-000000000000")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/submissions", jsonBody(t, body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	_, _, message := decodeError(t, w)
	if message != "Challenge not found" {
		t.Errorf("message = %q, want %q", message, "Challenge not found")
	}
	if len(subs.created) != 0 {
		t.Error("nothing should be stored for an unknown challenge")
	}
}

// A broken broker must not reject the submission: the draft is already stored
// and moderators can find it via the pending list.
func TestCreateSubmissionQueueFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore()
	ch := publishedChallenge("some-challenge")
	challenges.add(ch)
	subs := &fakeSubmissionStore{}
	q := &fakeQueue{enqueueErr: http.ErrServerClosed}

	r := newSubmissionRouter(subs, challenges, q)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/submissions", jsonBody(t, validSubmissionBody(t, ch.ID.String()))))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if len(subs.created) != 1 {
		t.Errorf("created count = %d, want 1", len(subs.created))
	}
}

func TestCreateSubmissionNilQueue(t *testing.T) {
	t.Parallel()

	challenges := newFakeChallengeStore()
	ch := publishedChallenge("some-challenge")
	challenges.add(ch)
	subs := &fakeSubmissionStore{}

	h := NewSubmissionHandler(subs, challenges, nil, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/submissions").Subrouter())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/submissions", jsonBody(t, validSubmissionBody(t, ch.ID.String()))))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
}
