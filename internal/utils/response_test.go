package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/types"
)

func TestMutationHeaders(t *testing.T) {
	app := fiber.New()
	app.Post("/things", func(c *fiber.Ctx) error {
		return CreatedResponse(c, "app", "thing", "/api/things/5", 5, fiber.Map{"id": 5})
	})
	app.Delete("/things/:id", func(c *fiber.Ctx) error {
		return DeletedResponse(c, "app", "thing", 5)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/things", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected 201, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-app-alert"); got != "app.thing.created" {
		t.Errorf("Unexpected alert %q", got)
	}
	if got := resp.Header.Get("X-app-params"); got != "5" {
		t.Errorf("Unexpected params %q", got)
	}
	if got := resp.Header.Get("Location"); got != "/api/things/5" {
		t.Errorf("Unexpected Location %q", got)
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/things/5", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-app-alert"); got != "app.thing.deleted" {
		t.Errorf("Unexpected alert %q", got)
	}
}

func TestCustomErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/entity", func(c *fiber.Ctx) error {
		return CustomErrorResponse(c, "app", types.NewValidationError("thing", "Invalid id", "idnull"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return CustomErrorResponse(c, "app", types.NewForbiddenError("no session", "authorization.user"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/entity?x=1", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-app-error"); got != "error.idnull" {
		t.Errorf("Unexpected error header %q", got)
	}
	if got := resp.Header.Get("X-app-params"); got != "thing" {
		t.Errorf("Unexpected params %q", got)
	}

	var body ErrorResponseStruct
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Status != 400 || body.Ok || body.Type != "idnull" || body.URL != "/entity?x=1" || body.Timestamp == "" {
		t.Errorf("Unexpected error body %+v", body)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-app-error"); got != "" {
		t.Errorf("Expected no entity error header, got %q", got)
	}
}
