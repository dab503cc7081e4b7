// Package auth provides the static bearer-token gate for the API surface.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/GoUserAdmin/GoUserAdmin/internal/config"
)

// UnauthorizedBody is the plain-text body sent on a failed token check.
const UnauthorizedBody = "Unauthorized"

// New returns a Fiber middleware that rejects any request not carrying the
// configured bearer token in the Authorization header. The token comes from
// explicit configuration, not a package constant, and the comparison is
// constant time.
func New(cfg *config.Config) fiber.Handler {
	expected := []byte("Bearer " + cfg.Webserver.APIToken)

	return func(c *fiber.Ctx) error {
		header := []byte(c.Get(fiber.HeaderAuthorization))
		if subtle.ConstantTimeCompare(header, expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).SendString(UnauthorizedBody)
		}

		return c.Next()
	}
}
