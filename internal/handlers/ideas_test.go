package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rushboard/challenge-api/internal/queue"
	"go.uber.org/zap"
)

func newIdeaRouter(store *fakeIdeaStore, q *fakeQueue) *mux.Router {
	h := NewIdeaHandler(store, q, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/ideas").Subrouter())
	return r
}

func TestCreateIdea(t *testing.T) {
	t.Parallel()

	store := &fakeIdeaStore{}
	q := &fakeQueue{}
	r := newIdeaRouter(store, q)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/ideas", jsonBody(t, map[string]any{
		"type":        "Challenge",
		"description": "A pacifist run through the whole campaign",
	}))
	req.RemoteAddr = "203.0.113.5:1234"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	if len(store.created) != 1 {
		t.Fatalf("created count = %d, want 1", len(store.created))
	}
	idea := store.created[0]
	if idea.PublishedAt != nil {
		t.Error("idea must be stored as a draft")
	}
	if idea.SubmitterIP == nil || *idea.SubmitterIP != "203.0.113.5" {
		t.Errorf("SubmitterIP = %v, want 203.0.113.5", idea.SubmitterIP)
	}

	if len(q.enqueued) != 1 || q.enqueued[0].ContentKind != queue.ContentKindIdea {
		t.Errorf("expected one idea review job, got %v", q.enqueued)
	}
}

func TestCreateIdeaMissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing type", map[string]any{"description": "something"}},
		{"missing description", map[string]any{"type": "Challenge"}},
		{"empty body", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeIdeaStore{}
			r := newIdeaRouter(store, &fakeQueue{})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("POST", "/api/ideas", jsonBody(t, tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			_, _, message := decodeError(t, w)
			if want := "Type and description are required"; message != want {
				t.Errorf("message = %q, want %q", message, want)
			}
			if len(store.created) != 0 {
				t.Error("nothing should be stored on validation failure")
			}
		})
	}
}

func TestCreateIdeaInvalidType(t *testing.T) {
	t.Parallel()

	store := &fakeIdeaStore{}
	r := newIdeaRouter(store, &fakeQueue{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/ideas", jsonBody(t, map[string]any{
		"type":        "Mod",
		"description": "something",
	})))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(store.created) != 0 {
		t.Error("nothing should be stored for an invalid type")
	}
}
