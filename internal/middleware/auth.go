package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/localnerve/socialnetwork/internal/config"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/types"
	"gorm.io/gorm"
)

// LocalsLogin is the fiber.Ctx locals key holding the current login
const LocalsLogin = "login"

// SessionCookie is the Authorizer session cookie name
const SessionCookie = "cookie_session"

// AuthUser validates the session for the user role, provisions the local user
// record and stores the login for handlers.
func AuthUser(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, db, []string{"user"}, "authorization.user")
	}
}

// AuthAdmin validates the session for the admin role
func AuthAdmin(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, db, []string{"admin"}, "authorization.admin")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, cfg *config.Config, db *gorm.DB, roles []string, errorType string) error {
	// Get session cookie
	session := c.Cookies(SessionCookie)
	if session == "" {
		return types.NewForbiddenError(fmt.Sprintf("Authorizer cookie %q not found", SessionCookie), errorType)
	}

	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(c.UserContext(), cfg, c.Protocol(), c.Hostname()); err != nil {
			log.Errorf("authorizer unavailable: %v", err)
			return types.NewForbiddenError("Authorizer unavailable", errorType)
		}
	}

	user, err := services.ValidateSession(session, roles)
	if err != nil {
		return types.NewForbiddenError(fmt.Sprintf("Invalid session: %v", err), errorType)
	}

	login := user.Login()
	if _, err := services.EnsureUser(c.UserContext(), db, login); err != nil {
		return err
	}
	c.Locals(LocalsLogin, login)

	return c.Next()
}

// CurrentLogin returns the login stored by the auth middleware
func CurrentLogin(c *fiber.Ctx) (string, bool) {
	login, ok := c.Locals(LocalsLogin).(string)
	return login, ok && login != ""
}
