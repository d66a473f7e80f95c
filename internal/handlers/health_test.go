package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthCheck_BasicMode(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(nil, nil, nil)

	w := httptest.NewRecorder()
	checker.HealthCheck(w, httptest.NewRequest("GET", "/healthz", nil))

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
	if body.Checks != nil {
		t.Error("basic mode should not run dependency checks")
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", body.Timestamp, err)
	}
}

func TestHealthCheck_ExtendedMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		queue      *mockJobQueue
		wantStatus int
		wantCheck  string
	}{
		{
			name:       "healthy queue",
			queue:      &mockJobQueue{},
			wantStatus: http.StatusOK,
			wantCheck:  "healthy",
		},
		{
			name:       "unhealthy queue",
			queue:      &mockJobQueue{failHealth: true},
			wantStatus: http.StatusServiceUnavailable,
			wantCheck:  "unhealthy: queue unreachable",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewHealthChecker(nil, tt.queue, nil)

			w := httptest.NewRecorder()
			checker.HealthCheck(w, httptest.NewRequest("GET", "/healthz?mode=extended", nil))

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body HealthResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Checks["queue"] != tt.wantCheck {
				t.Errorf("queue check = %q, want %q", body.Checks["queue"], tt.wantCheck)
			}
		})
	}
}

func TestHealthCheck_ExtendedMode_SkipsMissingDependencies(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(nil, nil, nil)

	w := httptest.NewRecorder()
	checker.HealthCheck(w, httptest.NewRequest("GET", "/healthz?mode=extended", nil))

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Checks) != 0 {
		t.Errorf("checks = %v, want none for unconfigured dependencies", body.Checks)
	}
}
