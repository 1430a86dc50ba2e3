package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/utils"
)

// CommentHandler handles /api/comments
type CommentHandler struct {
	Base
}

// CreateComment handles POST /api/comments
// @Summary Create a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param body body models.Comment true "Comment without id"
// @Success 201 {object} models.Comment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /comments [post]
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var body models.Comment
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "createComment")
	}
	comment, err := services.CreateComment(c.UserContext(), h.DB, &body)
	if err != nil {
		return h.handleError(c, err, "createComment")
	}
	return utils.CreatedResponse(c, h.AppName, services.EntityComment, location("comments", comment.ID), comment.ID, comment)
}

// UpdateComment handles PUT and PATCH /api/comments/:id
// @Summary Update a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param body body models.Comment true "Comment"
// @Success 200 {object} models.Comment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /comments/{id} [put]
func (h *CommentHandler) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "updateComment")
	}
	var body models.Comment
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "updateComment")
	}

	update := services.UpdateComment
	if c.Method() == fiber.MethodPatch {
		update = services.PatchComment
	}
	comment, err := update(c.UserContext(), h.DB, id, &body)
	if err != nil {
		return h.handleError(c, err, "updateComment")
	}
	return utils.MutationResponse(c, h.AppName, services.EntityComment, utils.ActionUpdated, id, comment, fiber.StatusOK)
}

// GetAllComments handles GET /api/comments
// @Summary List comments
// @Tags Comments
// @Produce json
// @Success 200 {array} models.Comment
// @Security CookieAuth
// @Router /comments [get]
func (h *CommentHandler) GetAllComments(c *fiber.Ctx) error {
	comments, err := services.ListComments(c.UserContext(), h.DB)
	if err != nil {
		return h.handleError(c, err, "getAllComments")
	}
	return utils.SuccessResponse(c, comments, fiber.StatusOK)
}

// GetComment handles GET /api/comments/:id
// @Summary Get a comment
// @Tags Comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /comments/{id} [get]
func (h *CommentHandler) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "getComment")
	}
	comment, err := services.GetComment(c.UserContext(), h.DB, id)
	if err != nil {
		return h.handleError(c, err, "getComment")
	}
	return utils.SuccessResponse(c, comment, fiber.StatusOK)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment
// @Tags Comments
// @Param id path int true "Comment ID"
// @Success 204
// @Security CookieAuth
// @Router /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "deleteComment")
	}
	if err := services.DeleteComment(c.UserContext(), h.DB, id); err != nil {
		return h.handleError(c, err, "deleteComment")
	}
	return utils.DeletedResponse(c, h.AppName, services.EntityComment, id)
}
