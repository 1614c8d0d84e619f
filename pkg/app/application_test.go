package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"doctortravel/pkg/client"
	"doctortravel/pkg/config"
	"doctortravel/pkg/contracts"
	httputil "doctortravel/pkg/http"
	"doctortravel/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(r *httprouter.Router) {
	r.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var body map[string]any
		if err := httputil.DecodeJSON(r, &body); err != nil {
			_ = httputil.WriteError(w, err)
			return
		}
		_ = httputil.WriteSuccess(w, body)
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Hour,
		MaxRequestSize:    1024,
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
		Client:            client.NewClient(),
	}
}

func newTestApp(checks ...contracts.HealthCheck) *Application {
	a := NewApplication(testConfig())
	a.SetApp(echoHandler{}, NewHealthHandler(logger.Discard(), func() any {
		return map[string]int{"published": 3}
	}, checks...))
	return a
}

func TestHealth(t *testing.T) {
	a := newTestApp()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestReady_ReportsFailingDependency(t *testing.T) {
	a := newTestApp(
		contracts.HealthCheck{Name: "mongo", Ping: func(context.Context) error { return nil }},
		contracts.HealthCheck{Name: "postgres", Ping: func(context.Context) error { return errors.New("down") }},
	)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Dependencies["mongo"] != "ok" || resp.Dependencies["postgres"] != "error" {
		t.Errorf("unexpected dependencies %v", resp.Dependencies)
	}
	if resp.Events == nil {
		t.Errorf("expected event metrics in readiness response")
	}
}

func TestAppRoutesUseMiddlewareStack(t *testing.T) {
	a := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected request id header")
	}
}

func TestAppRejectsOversizedBody(t *testing.T) {
	a := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"a":"`+strings.Repeat("x", 2048)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}
