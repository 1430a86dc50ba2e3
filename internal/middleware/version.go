package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/socialnetwork/internal/types"
)

// APIVersion is the version served by /api
const APIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header, rejects other major versions
// and echoes the served version.
func VersionMiddleware() fiber.Handler {
	major := strings.SplitN(APIVersion, ".", 2)[0]

	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", APIVersion)

		// Support version aliases
		switch version {
		case major, major + ".0":
			version = APIVersion
		}

		if strings.SplitN(version, ".", 2)[0] != major {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: fmt.Sprintf("Unsupported API version %s, this server speaks %s", version, APIVersion),
				Type:    "versionunsupported",
			}
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", APIVersion)

		return c.Next()
	}
}
