// profile.go
//
// A social network data service: profiles, friendships, chats and posts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of socialnetwork.
// socialnetwork is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// socialnetwork is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with socialnetwork.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/localnerve/socialnetwork/internal/models"
	"github.com/localnerve/socialnetwork/internal/services"
	"github.com/localnerve/socialnetwork/internal/types"
	"github.com/localnerve/socialnetwork/internal/utils"
	"gorm.io/gorm"
)

// ProfileHandler handles /api/profiles
type ProfileHandler struct {
	Base
	// ConcurrentBagFetch runs the others and chats queries in parallel
	ConcurrentBagFetch bool
}

// CreateProfile handles POST /api/profiles
// @Summary Create a profile
// @Description Create a profile, owned by the current user when the body names no user
// @Tags Profiles
// @Accept json
// @Produce json
// @Param body body models.Profile true "Profile without id"
// @Success 201 {object} models.Profile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c *fiber.Ctx) error {
	var body models.Profile
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, "createProfile")
	}
	log.Debug("REST request to save Profile")

	profile, err := services.CreateProfile(c.UserContext(), h.DB, currentLogin(c), &body)
	if err != nil {
		return h.handleError(c, err, "createProfile")
	}
	return utils.CreatedResponse(c, h.AppName, services.EntityProfile, location("profiles", profile.ID), profile.ID, profile)
}

// UpdateProfile handles PUT /api/profiles/:id
// @Summary Update a profile
// @Description Overwrite every field of a profile. User, others and chats are replaced when present.
// @Tags Profiles
// @Accept json
// @Produce json
// @Param id path int true "Profile ID"
// @Param body body models.Profile true "Profile"
// @Success 200 {object} models.Profile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	return h.save(c, services.UpdateProfile, "updateProfile")
}

// PatchProfile handles PATCH /api/profiles/:id
// @Summary Partially update a profile
// @Description Overwrite only the fields present and non-null in the body
// @Tags Profiles
// @Accept json
// @Produce json
// @Param id path int true "Profile ID"
// @Param body body models.Profile true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profiles/{id} [patch]
func (h *ProfileHandler) PatchProfile(c *fiber.Ctx) error {
	return h.save(c, services.PatchProfile, "partialUpdateProfile")
}

func (h *ProfileHandler) save(c *fiber.Ctx, apply func(ctx context.Context, db *gorm.DB, id uint64, in *models.Profile) (*models.Profile, error), operation string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, operation)
	}
	var body models.Profile
	if err := parseBody(c, &body); err != nil {
		return h.handleError(c, err, operation)
	}

	profile, err := apply(c.UserContext(), h.DB, id, &body)
	if err != nil {
		return h.handleError(c, err, operation)
	}
	return utils.MutationResponse(c, h.AppName, services.EntityProfile, utils.ActionUpdated, id, profile, fiber.StatusOK)
}

// GetAllProfiles handles GET /api/profiles
// @Summary List profiles
// @Description List profiles with others and chats loaded unless eagerload=false. With page or size the result is paged and X-Total-Count is set.
// @Tags Profiles
// @Produce json
// @Param eagerload query bool false "Load others and chats" default(true)
// @Param page query int false "Zero based page"
// @Param size query int false "Page size" default(20)
// @Success 200 {array} models.Profile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profiles [get]
func (h *ProfileHandler) GetAllProfiles(c *fiber.Ctx) error {
	opts := services.ListOptions{
		Eager:      c.QueryBool("eagerload", true),
		Concurrent: h.ConcurrentBagFetch,
	}
	if c.Query("page") != "" || c.Query("size") != "" {
		opts.Paged = true
		opts.Page = c.QueryInt("page", 0)
		opts.Size = c.QueryInt("size", 20)
		if opts.Page < 0 || opts.Size <= 0 {
			return h.handleError(c, &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: "Invalid page or size",
				Type:    "validation.input",
			}, "getAllProfiles")
		}
	}
	log.Debugf("REST request to get all Profiles (eager %v)", opts.Eager)

	profiles, total, err := services.ListProfiles(c.UserContext(), h.DB, opts)
	if err != nil {
		return h.handleError(c, err, "getAllProfiles")
	}
	if opts.Paged {
		c.Set("X-Total-Count", strconv.FormatInt(total, 10))
	}
	return utils.SuccessResponse(c, profiles, fiber.StatusOK)
}

// GetProfile handles GET /api/profiles/:id
// @Summary Get a profile
// @Description Get a profile with its others and chats
// @Tags Profiles
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "getProfile")
	}

	profile, err := services.GetProfile(c.UserContext(), h.DB, id, h.ConcurrentBagFetch)
	if err != nil {
		return h.handleError(c, err, "getProfile")
	}
	return utils.SuccessResponse(c, profile, fiber.StatusOK)
}

// GetCurrentUserProfile handles GET /api/profiles/current-user
// @Summary Get the current user's profile
// @Description Get the profile of the session user with others, chats and the profiles that befriended it
// @Tags Profiles
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profiles/current-user [get]
func (h *ProfileHandler) GetCurrentUserProfile(c *fiber.Ctx) error {
	profile, err := services.GetCurrentUserProfile(c.UserContext(), h.DB, currentLogin(c), h.ConcurrentBagFetch)
	if err != nil {
		return h.handleError(c, err, "getCurrentUserProfile")
	}
	return utils.SuccessResponse(c, profile, fiber.StatusOK)
}

// DeleteProfile handles DELETE /api/profiles/:id
// @Summary Delete a profile
// @Tags Profiles
// @Param id path int true "Profile ID"
// @Success 204
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return h.handleError(c, err, "deleteProfile")
	}
	if err := services.DeleteProfile(c.UserContext(), h.DB, id); err != nil {
		return h.handleError(c, err, "deleteProfile")
	}
	return utils.DeletedResponse(c, h.AppName, services.EntityProfile, id)
}
