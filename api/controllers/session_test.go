package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ebtehal15/turkey-items-v2/api/middleware"
	"github.com/Ebtehal15/turkey-items-v2/pkg/config"
	"github.com/Ebtehal15/turkey-items-v2/pkg/session"
)

type stubSessionManager struct {
	startedKind session.Kind
	lastRevoked string
	token       string
}

func (s *stubSessionManager) Start(ctx context.Context, kind session.Kind) (string, error) {
	s.startedKind = kind
	if s.token == "" {
		s.token = "tok-test"
	}
	return s.token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, sessionID string) error {
	s.lastRevoked = sessionID
	return nil
}

func TestStartSessionIssuesCartToken(t *testing.T) {
	manager := &stubSessionManager{token: "cart-tok"}
	handler := StartSession(manager, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if manager.startedKind != session.KindCart {
		t.Fatalf("expected cart kind, got %q", manager.startedKind)
	}
	if got := rec.Header().Get("X-Session-Token"); got != "cart-tok" {
		t.Fatalf("expected token header, got %q", got)
	}
	var envelope struct {
		Data sessionResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SessionToken != "cart-tok" {
		t.Fatalf("expected token in body, got %q", envelope.Data.SessionToken)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	manager := &stubSessionManager{}
	handler := AdminLogin(manager, config.AdminConfig{Password: "hunter2"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if manager.startedKind != "" {
		t.Fatal("no session should be started on a failed login")
	}
}

func TestAdminLoginCorrectPassword(t *testing.T) {
	manager := &stubSessionManager{token: "adm-tok"}
	handler := AdminLogin(manager, config.AdminConfig{Password: "hunter2"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if manager.startedKind != session.KindAdmin {
		t.Fatalf("expected admin kind, got %q", manager.startedKind)
	}
}

func TestAdminLogoutRevokesContextSession(t *testing.T) {
	manager := &stubSessionManager{}
	handler := AdminLogout(manager, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	ctx := middleware.WithSession(req.Context(), "adm-1", string(session.KindAdmin))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if manager.lastRevoked != "adm-1" {
		t.Fatalf("expected revoked adm-1, got %q", manager.lastRevoked)
	}
}
