package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/types"
)

// Entity alert actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// AlertHeaders sets the entity alert headers X-<app>-alert and X-<app>-params
func AlertHeaders(c *fiber.Ctx, app, entity, action string, id uint64) {
	c.Set(fmt.Sprintf("X-%s-alert", app), fmt.Sprintf("%s.%s.%s", app, entity, action))
	c.Set(fmt.Sprintf("X-%s-params", app), strconv.FormatUint(id, 10))
}

// MutationResponse sends data with status and the alert headers for action on entity id
func MutationResponse(c *fiber.Ctx, app, entity, action string, id uint64, data interface{}, status int) error {
	AlertHeaders(c, app, entity, action, id)
	return c.Status(status).JSON(data)
}

// CreatedResponse sends a 201 with the Location of the new resource
func CreatedResponse(c *fiber.Ctx, app, entity, location string, id uint64, data interface{}) error {
	c.Location(location)
	return MutationResponse(c, app, entity, ActionCreated, id, data, fiber.StatusCreated)
}

// DeletedResponse sends a 204 with the deletion alert headers
func DeletedResponse(c *fiber.Ctx, app, entity string, id uint64) error {
	AlertHeaders(c, app, entity, ActionDeleted, id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	})
}

// CustomErrorResponse sends err with its own status, plus the X-<app>-error header
// for entity errors.
func CustomErrorResponse(c *fiber.Ctx, app string, err *types.CustomError) error {
	if err.Entity != "" && app != "" {
		c.Set(fmt.Sprintf("X-%s-error", app), "error."+err.Type)
		c.Set(fmt.Sprintf("X-%s-params", app), err.Entity)
	}
	return ErrorResponse(c, err.Message, err.Code, err.Type)
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "notfound")
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}
