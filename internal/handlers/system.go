package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/config"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/utils"
)

// HealthHandler serves /health
type HealthHandler struct {
	Base
	Config *config.Config
}

// Health handles GET /health
// @Summary Service health
// @Description Check database and Authorizer connectivity
// @Tags System
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SuccessResponse(c, result, status)
}

// UserHandler serves the admin user listing
type UserHandler struct {
	Base
}

// GetAllUsers handles GET /api/admin/users
// @Summary List users
// @Tags Admin
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/users [get]
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(c.UserContext(), h.DB)
	if err != nil {
		return h.handleError(c, err, "getAllUsers")
	}
	return utils.SuccessResponse(c, users, fiber.StatusOK)
}
