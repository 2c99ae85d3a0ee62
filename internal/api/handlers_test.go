package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wheelbot/internal/config"
	"wheelbot/internal/game"
	"wheelbot/internal/ledger"
	"wheelbot/internal/outcome"
)

func newTestAPI(t *testing.T) (*API, *ledger.Memory) {
	t.Helper()
	lg := ledger.NewMemory()
	svc := game.NewService(lg, nil, outcome.NewTracker(), nil, nil, config.SpinConfig{}, 0)
	cfg := &config.Config{JWTSecret: "test-secret"}
	return New(cfg, svc), lg
}

func authedRequest(t *testing.T, a *API, method, path string, body []byte) *http.Request {
	t.Helper()
	token, err := MintToken(a.jwtSecret, "ops", time.Minute)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHandleHealth(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	a, _ := newTestAPI(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/users/u1/balance", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			a.router.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	a, _ := newTestAPI(t)

	token, err := MintToken([]byte("other-secret"), "ops", time.Minute)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}
	req := httptest.NewRequest("GET", "/api/users/u1/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleBalance(t *testing.T) {
	a, lg := newTestAPI(t)
	lg.Credit(context.Background(), "u1", 250)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, authedRequest(t, a, "GET", "/api/users/u1/balance", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body struct {
		UserID  string `json:"user_id"`
		Balance int64  `json:"balance"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.UserID != "u1" || body.Balance != 250 {
		t.Errorf("body = %+v, want u1/250", body)
	}
}

func TestHandleCredit(t *testing.T) {
	a, lg := newTestAPI(t)

	payload := []byte(`{"amount": 500, "reason": "settlement reconciliation"}`)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, authedRequest(t, a, "POST", "/api/users/u1/credit", payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if bal, _ := lg.Balance(context.Background(), "u1"); bal != 500 {
		t.Errorf("balance = %d, want 500", bal)
	}
}

func TestHandleCreditRejectsBadAmount(t *testing.T) {
	a, lg := newTestAPI(t)

	for _, payload := range []string{`{"amount": 0}`, `{"amount": -10}`, `not json`} {
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, authedRequest(t, a, "POST", "/api/users/u1/credit", []byte(payload)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, rec.Code)
		}
	}
	if bal, _ := lg.Balance(context.Background(), "u1"); bal != 0 {
		t.Errorf("rejected credits must not move funds, balance = %d", bal)
	}
}

func TestHandleStats(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, authedRequest(t, a, "GET", "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		ActiveSessions int `json:"active_sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.ActiveSessions != 0 {
		t.Errorf("active_sessions = %d, want 0", body.ActiveSessions)
	}
}
