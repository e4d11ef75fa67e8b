package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthStatusOK(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(map[string]HealthChecker{
		"postgres": func(ctx context.Context) error { return nil },
	})

	router := gin.New()
	router.GET("/healthz", handler.Status)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if resp.Status != "ok" {
		t.Fatalf("expected status ok, got %q", resp.Status)
	}

	if resp.Checks["postgres"] != "ok" {
		t.Fatalf("expected postgres check ok, got %q", resp.Checks["postgres"])
	}
}

func TestHealthStatusDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(map[string]HealthChecker{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})

	router := gin.New()
	router.GET("/healthz", handler.Status)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if resp.Status != "degraded" {
		t.Fatalf("expected status degraded, got %q", resp.Status)
	}

	if resp.Checks["redis"] != "connection refused" {
		t.Fatalf("unexpected redis check %q", resp.Checks["redis"])
	}
}
