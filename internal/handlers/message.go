package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/utils"
)

// MessageHandler handles /api/messages
type MessageHandler struct {
	Base
}

// CreateMessage handles POST /api/messages
// @Summary Create a message
// @Description Create a message sent by the current user now
// @Tags Messages
// @Accept json
// @Produce json
// @Param body body models.Message true "Message without id"
// @Success 201 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /messages [post]
func (h *MessageHandler) CreateMessage(c *fiber.Ctx) error {
	var body models.Message
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "createMessage")
	}
	message, err := services.CreateMessage(c.UserContext(), h.DB, currentLogin(c), &body)
	if err != nil {
		return h.handleError(c, err, "createMessage")
	}
	return utils.CreatedResponse(c, h.AppName, services.EntityMessage, location("messages", message.ID), message.ID, message)
}

// UpdateMessage handles PUT /api/messages/:id
// @Summary Update a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param body body models.Message true "Message"
// @Success 200 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /messages/{id} [put]
func (h *MessageHandler) UpdateMessage(c *fiber.Ctx) error {
	return h.save(c, false)
}

// PatchMessage handles PATCH /api/messages/:id
// @Summary Partially update a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param body body models.Message true "Message fields"
// @Success 200 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /messages/{id} [patch]
func (h *MessageHandler) PatchMessage(c *fiber.Ctx) error {
	return h.save(c, true)
}

func (h *MessageHandler) save(c *fiber.Ctx, partial bool) error {
	operation := "updateMessage"
	if partial {
		operation = "partialUpdateMessage"
	}
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, operation)
	}
	var body models.Message
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, operation)
	}

	var message *models.Message
	if partial {
		message, err = services.PatchMessage(c.UserContext(), h.DB, id, &body)
	} else {
		message, err = services.UpdateMessage(c.UserContext(), h.DB, id, &body)
	}
	if err != nil {
		return h.handleError(c, err, operation)
	}
	return utils.MutationResponse(c, h.AppName, services.EntityMessage, utils.ActionUpdated, id, message, fiber.StatusOK)
}

// GetAllMessages handles GET /api/messages
// @Summary List messages
// @Tags Messages
// @Produce json
// @Param filter query string false "comment-is-null selects messages that carry no comment"
// @Success 200 {array} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /messages [get]
func (h *MessageHandler) GetAllMessages(c *fiber.Ctx) error {
	messages, err := services.ListMessages(c.UserContext(), h.DB, c.Query("filter"))
	if err != nil {
		return h.handleError(c, err, "getAllMessages")
	}
	return utils.SuccessResponse(c, messages, fiber.StatusOK)
}

// GetMessage handles GET /api/messages/:id
// @Summary Get a message
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /messages/{id} [get]
func (h *MessageHandler) GetMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "getMessage")
	}
	message, err := services.GetMessage(c.UserContext(), h.DB, id)
	if err != nil {
		return h.handleError(c, err, "getMessage")
	}
	return utils.SuccessResponse(c, message, fiber.StatusOK)
}

// DeleteMessage handles DELETE /api/messages/:id
// @Summary Delete a message
// @Tags Messages
// @Param id path int true "Message ID"
// @Success 204
// @Security CookieAuth
// @Router /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "deleteMessage")
	}
	if err := services.DeleteMessage(c.UserContext(), h.DB, id); err != nil {
		return h.handleError(c, err, "deleteMessage")
	}
	return utils.DeletedResponse(c, h.AppName, services.EntityMessage, id)
}
