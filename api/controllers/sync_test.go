package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ebtehal15/turkey-items-v2/internal/settings"
	"github.com/Ebtehal15/turkey-items-v2/internal/syncengine"
)

type stubReconciler struct {
	gotRows []syncengine.Row
	gotOpts syncengine.Options
	report  *syncengine.Report
}

func (s *stubReconciler) Reconcile(ctx context.Context, rows []syncengine.Row, opts syncengine.Options) (*syncengine.Report, error) {
	s.gotRows = rows
	s.gotOpts = opts
	if s.report != nil {
		return s.report, nil
	}
	return &syncengine.Report{ProcessedCount: len(rows)}, nil
}

type stubFetcher struct {
	gotURL string
	rows   []syncengine.Row
	err    error
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) ([]syncengine.Row, error) {
	s.gotURL = url
	return s.rows, s.err
}

type stubSyncConfig struct {
	cfg settings.SheetsSync
}

func (s *stubSyncConfig) SheetsSync(ctx context.Context) (*settings.SheetsSync, error) {
	cfg := s.cfg
	return &cfg, nil
}

func postSync(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/sync", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRunSyncWithInlineRows(t *testing.T) {
	engine := &stubReconciler{}
	handler := RunSync(engine, &stubFetcher{}, &stubSyncConfig{}, nil)

	rec := postSync(t, handler, `{"rows":[{"specialId":"CR01","classPrice":"12.50"}],"updateOnly":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(engine.gotRows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(engine.gotRows))
	}
	if !engine.gotOpts.UpdateOnly {
		t.Fatal("expected update-only option to pass through")
	}

	var envelope struct {
		Data syncengine.Report `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ProcessedCount != 1 {
		t.Fatalf("expected processedCount 1, got %d", envelope.Data.ProcessedCount)
	}
}

func TestRunSyncFetchesExplicitURL(t *testing.T) {
	engine := &stubReconciler{}
	fetcher := &stubFetcher{rows: []syncengine.Row{{"specialId": "CR02"}}}
	handler := RunSync(engine, fetcher, &stubSyncConfig{}, nil)

	rec := postSync(t, handler, `{"csvUrl":"https://example.com/sheet.csv"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if fetcher.gotURL != "https://example.com/sheet.csv" {
		t.Fatalf("unexpected fetch url %q", fetcher.gotURL)
	}
	if len(engine.gotRows) != 1 {
		t.Fatalf("expected fetched rows forwarded, got %d", len(engine.gotRows))
	}
}

func TestRunSyncFallsBackToSavedConfig(t *testing.T) {
	engine := &stubReconciler{}
	fetcher := &stubFetcher{rows: []syncengine.Row{{"specialId": "CR03"}}}
	config := &stubSyncConfig{cfg: settings.SheetsSync{URL: "https://example.com/saved.csv", UpdateOnly: true}}
	handler := RunSync(engine, fetcher, config, nil)

	rec := postSync(t, handler, `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if fetcher.gotURL != "https://example.com/saved.csv" {
		t.Fatalf("unexpected fetch url %q", fetcher.gotURL)
	}
	if !engine.gotOpts.UpdateOnly {
		t.Fatal("expected saved update-only flag to apply")
	}
}

func TestRunSyncExplicitUpdateOnlyOverridesSaved(t *testing.T) {
	engine := &stubReconciler{}
	fetcher := &stubFetcher{rows: []syncengine.Row{{"specialId": "CR04"}}}
	config := &stubSyncConfig{cfg: settings.SheetsSync{URL: "https://example.com/saved.csv", UpdateOnly: true}}
	handler := RunSync(engine, fetcher, config, nil)

	rec := postSync(t, handler, `{"updateOnly":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if engine.gotOpts.UpdateOnly {
		t.Fatal("expected explicit updateOnly=false to win over saved config")
	}
}

func TestRunSyncNoSource(t *testing.T) {
	handler := RunSync(&stubReconciler{}, &stubFetcher{}, &stubSyncConfig{}, nil)

	rec := postSync(t, handler, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}
