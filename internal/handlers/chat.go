package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/utils"
)

// ChatHandler handles /api/chats
type ChatHandler struct {
	Base
	ConcurrentBagFetch bool
}

// CreateChat handles POST /api/chats
// @Summary Create a chat
// @Tags Chats
// @Accept json
// @Produce json
// @Param body body models.Chat true "Chat without id"
// @Success 201 {object} models.Chat
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats [post]
func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	var body models.Chat
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "createChat")
	}

	chat, err := services.CreateChat(c.UserContext(), h.DB, &body)
	if err != nil {
		return h.handleError(c, err, "createChat")
	}
	return utils.CreatedResponse(c, h.AppName, services.EntityChat, location("chats", chat.ID), chat.ID, chat)
}

// RequestChatWithProfile handles POST /api/chats/request-chat-with-profile/:id
// @Summary Request a chat with a profile
// @Description Open a pending chat from the current user to the profile, seeded with a chat request message
// @Tags Chats
// @Produce json
// @Param id path int true "Profile ID"
// @Success 201 {object} models.Chat
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats/request-chat-with-profile/{id} [post]
func (h *ChatHandler) RequestChatWithProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "requestChatWithProfile")
	}
	log.Debugf("REST request to request a chat with Profile : %d", id)

	chat, err := services.RequestChatWithProfile(c.UserContext(), h.DB, currentLogin(c), id)
	if err != nil {
		return h.handleError(c, err, "requestChatWithProfile")
	}
	return utils.CreatedResponse(c, h.AppName, services.EntityChat, location("chats", chat.ID), chat.ID, chat)
}

// AcceptChat handles PATCH /api/chats/:id/accept
// @Summary Accept a chat
// @Description Accept the chat and befriend its initiator. Returns the current user's profile.
// @Tags Chats
// @Produce json
// @Param id path int true "Chat ID"
// @Success 200 {object} models.Profile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats/{id}/accept [patch]
func (h *ChatHandler) AcceptChat(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "acceptChat")
	}

	profile, err := services.AcceptChat(c.UserContext(), h.DB, currentLogin(c), id, h.ConcurrentBagFetch)
	if err != nil {
		return h.handleError(c, err, "acceptChat")
	}
	return utils.MutationResponse(c, h.AppName, services.EntityChat, utils.ActionUpdated, id, profile, fiber.StatusOK)
}

// MessageInChat handles PATCH /api/chats/:id/message
// @Summary Send a message in a chat
// @Tags Chats
// @Accept json
// @Produce json
// @Param id path int true "Chat ID"
// @Param body body models.Message true "Message content"
// @Success 201 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats/{id}/message [patch]
func (h *ChatHandler) MessageInChat(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "messageInChat")
	}
	var body models.Message
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "messageInChat")
	}

	message, err := services.MessageInChat(c.UserContext(), h.DB, currentLogin(c), id, &body)
	if err != nil {
		return h.handleError(c, err, "messageInChat")
	}
	return utils.CreatedResponse(c, h.AppName, services.EntityMessage, location("messages", message.ID), message.ID, message)
}

// UpdateChat handles PUT /api/chats/:id
// @Summary Update a chat
// @Tags Chats
// @Accept json
// @Produce json
// @Param id path int true "Chat ID"
// @Param body body models.Chat true "Chat"
// @Success 200 {object} models.Chat
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats/{id} [put]
func (h *ChatHandler) UpdateChat(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "updateChat")
	}
	var body models.Chat
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "updateChat")
	}

	chat, err := services.UpdateChat(c.UserContext(), h.DB, id, &body)
	if err != nil {
		return h.handleError(c, err, "updateChat")
	}
	return utils.MutationResponse(c, h.AppName, services.EntityChat, utils.ActionUpdated, id, chat, fiber.StatusOK)
}

// PatchChat handles PATCH /api/chats/:id
// @Summary Partially update a chat
// @Tags Chats
// @Accept json
// @Produce json
// @Param id path int true "Chat ID"
// @Param body body models.Chat true "Chat fields"
// @Success 200 {object} models.Chat
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats/{id} [patch]
func (h *ChatHandler) PatchChat(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "partialUpdateChat")
	}
	var body models.Chat
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "partialUpdateChat")
	}

	chat, err := services.PatchChat(c.UserContext(), h.DB, id, &body)
	if err != nil {
		return h.handleError(c, err, "partialUpdateChat")
	}
	return utils.MutationResponse(c, h.AppName, services.EntityChat, utils.ActionUpdated, id, chat, fiber.StatusOK)
}

// GetAllChats handles GET /api/chats
// @Summary List the current user's chats
// @Tags Chats
// @Produce json
// @Success 200 {array} models.Chat
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats [get]
func (h *ChatHandler) GetAllChats(c *fiber.Ctx) error {
	chats, err := services.ListChats(c.UserContext(), h.DB, currentLogin(c))
	if err != nil {
		return h.handleError(c, err, "getAllChats")
	}
	return utils.SuccessResponse(c, chats, fiber.StatusOK)
}

// GetChat handles GET /api/chats/:id
// @Summary Get a chat
// @Description Get a chat with its messages and participants
// @Tags Chats
// @Produce json
// @Param id path int true "Chat ID"
// @Success 200 {object} models.Chat
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats/{id} [get]
func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "getChat")
	}
	chat, err := services.GetChat(c.UserContext(), h.DB, id)
	if err != nil {
		return h.handleError(c, err, "getChat")
	}
	return utils.SuccessResponse(c, chat, fiber.StatusOK)
}

// DeleteChat handles DELETE /api/chats/:id
// @Summary Delete a chat
// @Tags Chats
// @Param id path int true "Chat ID"
// @Success 204
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /chats/{id} [delete]
func (h *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "deleteChat")
	}
	if err := services.DeleteChat(c.UserContext(), h.DB, id); err != nil {
		return h.handleError(c, err, "deleteChat")
	}
	return utils.DeletedResponse(c, h.AppName, services.EntityChat, id)
}
