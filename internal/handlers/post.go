package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/utils"
)

// PostHandler handles /api/posts
type PostHandler struct {
	Base
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Create a post by the current user's profile, stamped now
// @Tags Posts
// @Accept json
// @Produce json
// @Param body body models.Post true "Post without id"
// @Success 201 {object} models.Post
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var body models.Post
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "createPost")
	}
	log.Debug("REST request to save Post")

	post, err := services.CreatePost(c.UserContext(), h.DB, currentLogin(c), &body)
	if err != nil {
		return h.handleError(c, err, "createPost")
	}
	return utils.CreatedResponse(c, h.AppName, services.EntityPost, location("posts", post.ID), post.ID, post)
}

// CommentOnPost handles PATCH /api/posts/:id/comment
// @Summary Comment on a post
// @Description Store the message as a comment by the current user's profile and return the post with its comments
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param body body models.Message true "Comment text"
// @Success 200 {object} models.Post
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts/{id}/comment [patch]
func (h *PostHandler) CommentOnPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "commentOnPost")
	}
	var body models.Message
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "commentOnPost")
	}

	post, err := services.CommentOnPost(c.UserContext(), h.DB, currentLogin(c), id, &body)
	if err != nil {
		return h.handleError(c, err, "commentOnPost")
	}
	return utils.MutationResponse(c, h.AppName, services.EntityPost, utils.ActionUpdated, id, post, fiber.StatusOK)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param body body models.Post true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "updatePost")
	}
	var body models.Post
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "updatePost")
	}
	post, err := services.UpdatePost(c.UserContext(), h.DB, id, &body)
	if err != nil {
		return h.handleError(c, err, "updatePost")
	}
	return utils.MutationResponse(c, h.AppName, services.EntityPost, utils.ActionUpdated, id, post, fiber.StatusOK)
}

// PatchPost handles PATCH /api/posts/:id
// @Summary Partially update a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param body body models.Post true "Post fields"
// @Success 200 {object} models.Post
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts/{id} [patch]
func (h *PostHandler) PatchPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "partialUpdatePost")
	}
	var body models.Post
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "partialUpdatePost")
	}
	post, err := services.PatchPost(c.UserContext(), h.DB, id, &body)
	if err != nil {
		return h.handleError(c, err, "partialUpdatePost")
	}
	return utils.MutationResponse(c, h.AppName, services.EntityPost, utils.ActionUpdated, id, post, fiber.StatusOK)
}

// GetAllPosts handles GET /api/posts
// @Summary List posts
// @Tags Posts
// @Produce json
// @Success 200 {array} models.Post
// @Security CookieAuth
// @Router /posts [get]
func (h *PostHandler) GetAllPosts(c *fiber.Ctx) error {
	posts, err := services.ListPosts(c.UserContext(), h.DB)
	if err != nil {
		return h.handleError(c, err, "getAllPosts")
	}
	return utils.SuccessResponse(c, posts, fiber.StatusOK)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Description Get a post with its author and comments
// @Tags Posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "getPost")
	}
	post, err := services.GetPost(c.UserContext(), h.DB, id)
	if err != nil {
		return h.handleError(c, err, "getPost")
	}
	return utils.SuccessResponse(c, post, fiber.StatusOK)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags Posts
// @Param id path int true "Post ID"
// @Success 204
// @Security CookieAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "deletePost")
	}
	if err := services.DeletePost(c.UserContext(), h.DB, id); err != nil {
		return h.handleError(c, err, "deletePost")
	}
	return utils.DeletedResponse(c, h.AppName, services.EntityPost, id)
}
