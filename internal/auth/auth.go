package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Authenticate reports whether the Authorization header carries secret as
// its credential. The scheme is not checked; a missing or malformed header
// simply fails.
func Authenticate(header, secret string) bool {
	if secret == "" {
		return false
	}
	token := credentialFromHeader(header)
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

func credentialFromHeader(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Middleware rejects requests that do not carry the shared secret.
func Middleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Authenticate(c.Get(fiber.HeaderAuthorization), secret) {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return c.Next()
	}
}
