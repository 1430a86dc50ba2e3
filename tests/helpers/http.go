package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/handlers"
	"github.com/localnerve/socialnetwork/internal/middleware"
	"gorm.io/gorm"
)

// TestAppName is the app name used for alert headers in handler tests
const TestAppName = "socialnetwork"

// AsUser stands in for the session middleware, every request runs as login
func AsUser(login string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsLogin, login)
		return c.Next()
	}
}

// NewTestApp mounts the api routes on a fresh app, authenticated as login
func NewTestApp(db *gorm.DB, login string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(TestAppName),
	})
	api := app.Group("/api", middleware.VersionMiddleware())
	routes := &handlers.Routes{
		DB:      db,
		AppName: TestAppName,
		User:    AsUser(login),
		Admin:   AsUser(login),
	}
	routes.Register(api)
	return app
}

// NewJSONRequest builds a request with body marshalled as JSON, or no body when body is nil
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// Do runs req against app and fails the test on transport errors
func Do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute %s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}
