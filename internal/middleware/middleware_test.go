package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/config"
	"github.com/localnerve/socialnetwork/internal/types"
)

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var ce *types.CustomError
			if errors.As(err, &ce) {
				return c.Status(ce.Code).SendString(ce.Type)
			}
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
	})
	handlers = append(handlers, func(c *fiber.Ctx) error {
		login, ok := CurrentLogin(c)
		if !ok {
			login = "anonymous"
		}
		return c.SendString(login)
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthMissingCookie(t *testing.T) {
	cfg := &config.Config{AuthzURL: "http://localhost:9999", AuthzClientID: "test"}

	for name, handler := range map[string]fiber.Handler{
		"authorization.user":  AuthUser(cfg, nil),
		"authorization.admin": AuthAdmin(cfg, nil),
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := newApp(handler).Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("Failed to execute request: %v", err)
			}
			if resp.StatusCode != http.StatusForbidden {
				t.Errorf("Expected 403 without a session cookie, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCurrentLogin(t *testing.T) {
	setLogin := func(login string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Locals(LocalsLogin, login)
			return c.Next()
		}
	}

	tests := []struct {
		name     string
		handlers []fiber.Handler
		want     string
	}{
		{"Set", []fiber.Handler{setLogin("alice")}, "alice"},
		{"Empty", []fiber.Handler{setLogin("")}, "anonymous"},
		{"Absent", nil, "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newApp(tt.handlers...).Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("Failed to execute request: %v", err)
			}
			body, _ := io.ReadAll(resp.Body)
			if got := string(body); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestVersionMiddleware(t *testing.T) {
	tests := []struct {
		version string
		status  int
	}{
		{"", http.StatusOK},
		{"1", http.StatusOK},
		{"1.0", http.StatusOK},
		{"1.0.0", http.StatusOK},
		{"1.4.2", http.StatusOK},
		{"2.0.0", http.StatusBadRequest},
		{"0.9", http.StatusBadRequest},
	}
	app := newApp(VersionMiddleware())

	for _, tt := range tests {
		t.Run("version "+tt.version, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.version != "" {
				req.Header.Set("X-Api-Version", tt.version)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Failed to execute request: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.status == http.StatusOK && resp.Header.Get("X-Api-Version") != APIVersion {
				t.Errorf("Expected X-Api-Version %s, got %q", APIVersion, resp.Header.Get("X-Api-Version"))
			}
		})
	}
}
