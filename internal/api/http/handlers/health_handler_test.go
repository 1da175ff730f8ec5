package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// A deployment running on in-memory stores has no postgres pool and no redis
// client; readiness must report both as skipped instead of failing on
// dependencies the service is not using.
func TestReadySkipsUnusedDependencies(t *testing.T) {
	h := NewHealthHandler("club-admin-auth", "test", nil, nil)

	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ready" {
		t.Fatalf("expected ready, got %s", body.Status)
	}
	if body.Dependencies["postgres"] != "skipped" {
		t.Fatalf("expected postgres skipped, got %s", body.Dependencies["postgres"])
	}
	if body.Dependencies["redis"] != "skipped" {
		t.Fatalf("expected redis skipped, got %s", body.Dependencies["redis"])
	}
}

func TestLiveReportsServiceIdentity(t *testing.T) {
	h := NewHealthHandler("club-admin-auth", "test", nil, nil)

	app := fiber.New()
	app.Get("/health/live", h.Live)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "alive" || body.Service != "club-admin-auth" {
		t.Fatalf("unexpected liveness payload: %+v", body)
	}
}
