// common.go
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
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/localnerve/socialnetwork/internal/middleware"
	"github.com/localnerve/socialnetwork/internal/types"
	"github.com/localnerve/socialnetwork/internal/utils"
	"gorm.io/gorm"
)

// Base holds what every entity handler needs
type Base struct {
	DB *gorm.DB
	// AppName prefixes the alert headers
	AppName string
}

// parseID reads the uint64 path parameter name
func parseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("Invalid %s '%s'", name, c.Params(name)),
			Type:    "idinvalid",
		}
	}
	return id, nil
}

// parseBody decodes a JSON (or merge-patch JSON) body into target
func parseBody(c *fiber.Ctx, target interface{}) error {
	if err := c.BodyParser(target); err != nil {
		return &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("Invalid input: %v", err),
			Type:    "validation.input",
		}
	}
	return nil
}

// currentLogin returns the login set by the auth middleware, or an empty string
func currentLogin(c *fiber.Ctx) string {
	login, _ := middleware.CurrentLogin(c)
	return login
}

// handleError writes err as an error response. CustomErrors carry their own
// status, anything else is a 500 typed with operation.
func (b *Base) handleError(c *fiber.Ctx, err error, operation string) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return utils.CustomErrorResponse(c, b.AppName, ce)
	}
	log.Errorf("%s %s failed: %v", c.Method(), c.OriginalURL(), err)
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, operation)
}

// location builds the Location of entity id
func location(collection string, id uint64) string {
	return fmt.Sprintf("/api/%s/%d", collection, id)
}

// ErrorHandler is the application error handler. It understands fiber errors
// and CustomErrors returned by middleware.
func ErrorHandler(app string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ce *types.CustomError
		if errors.As(err, &ce) {
			return utils.CustomErrorResponse(c, app, ce)
		}

		code := fiber.StatusInternalServerError
		errorType := "unknown"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code == fiber.StatusNotFound {
				errorType = "notfound"
			}
		} else {
			log.Errorf("%s %s failed: %v", c.Method(), c.OriginalURL(), err)
		}

		return c.Status(code).JSON(utils.ErrorResponseStruct{
			Status:    code,
			Message:   err.Error(),
			Ok:        false,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			URL:       c.OriginalURL(),
			Type:      errorType,
		})
	}
}
