package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rushboard/challenge-api/internal/models"
	"go.uber.org/zap"
)

func TestStatsOverview(t *testing.T) {
	t.Parallel()

	store := &fakeStatsStore{stats: &models.StatsOverview{
		Challenges:  12,
		CustomCodes: 7,
		Tournaments: 3,
	}}
	h := NewStatsHandler(store, nil, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/stats-overview").Subrouter())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats-overview", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Data map[string]int `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data["challenges"] != 12 || body.Data["customCodes"] != 7 || body.Data["tournaments"] != 3 {
		t.Errorf("data = %v, want challenges=12 customCodes=7 tournaments=3", body.Data)
	}
}

func TestStatsOverviewStoreError(t *testing.T) {
	t.Parallel()

	store := &fakeStatsStore{err: errors.New("connection refused")}
	h := NewStatsHandler(store, nil, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/stats-overview").Subrouter())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats-overview", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
