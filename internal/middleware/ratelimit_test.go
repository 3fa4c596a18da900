package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rushboard/challenge-api/internal/ratelimit"
	"go.uber.org/zap"
)

func newTestLimiter() *ratelimit.Limiter {
	return ratelimit.New(map[string]ratelimit.Rule{
		"submission": {Limit: 2, Window: time.Hour},
		"idea":       {Limit: 3, Window: time.Hour},
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, method, path, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, nil)
	r.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	t.Parallel()

	h := RateLimit(newTestLimiter(), zap.NewNop())(okHandler())

	for i := 0; i < 2; i++ {
		if w := doRequest(t, h, "POST", "/api/submissions", "203.0.113.5:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	w := doRequest(t, h, "POST", "/api/submissions", "203.0.113.5:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	var body struct {
		Error struct {
			Status  int    `json:"status"`
			Name    string `json:"name"`
			Message string `json:"message"`
			Details struct {
				RetryAfter int `json:"retryAfter"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Status != http.StatusTooManyRequests {
		t.Errorf("error.status = %d, want 429", body.Error.Status)
	}
	if body.Error.Name != "RateLimitError" {
		t.Errorf("error.name = %q, want RateLimitError", body.Error.Name)
	}
	if want := "Too many submissions. Please try again later."; body.Error.Message != want {
		t.Errorf("error.message = %q, want %q", body.Error.Message, want)
	}
	if body.Error.Details.RetryAfter <= 0 {
		t.Errorf("error.details.retryAfter = %d, want > 0", body.Error.Details.RetryAfter)
	}
}

func TestRateLimitIgnoresReads(t *testing.T) {
	t.Parallel()

	h := RateLimit(newTestLimiter(), zap.NewNop())(okHandler())

	for i := 0; i < 10; i++ {
		if w := doRequest(t, h, "GET", "/api/submissions", "203.0.113.5:1234"); w.Code != http.StatusOK {
			t.Fatalf("GET request %d: status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestRateLimitIgnoresOtherPaths(t *testing.T) {
	t.Parallel()

	h := RateLimit(newTestLimiter(), zap.NewNop())(okHandler())

	for i := 0; i < 10; i++ {
		if w := doRequest(t, h, "POST", "/api/challenges", "203.0.113.5:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestRateLimitSeparatesCategories(t *testing.T) {
	t.Parallel()

	h := RateLimit(newTestLimiter(), zap.NewNop())(okHandler())

	for i := 0; i < 2; i++ {
		doRequest(t, h, "POST", "/api/submissions", "203.0.113.5:1234")
	}
	if w := doRequest(t, h, "POST", "/api/submissions", "203.0.113.5:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("submissions should be exhausted, got %d", w.Code)
	}

	if w := doRequest(t, h, "POST", "/api/ideas", "203.0.113.5:1234"); w.Code != http.StatusOK {
		t.Errorf("ideas should still be allowed, got %d", w.Code)
	}
}

func TestCategoryFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/api/submissions", "submission"},
		{"/api/submissions/", "submission"},
		{"/api/v1/submissions", "submission"},
		{"/api/ideas", "idea"},
		{"/api/challenges", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := categoryFor(tt.path); got != tt.want {
			t.Errorf("categoryFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
