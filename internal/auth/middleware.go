package auth

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"cryptidwatch/pkg/logger"
	"cryptidwatch/pkg/utils"
)

const userIDLocal = "user_id"

// RequireAuth extracts and verifies the bearer token and stores the caller
// identity in Locals. Every handler that needs a caller identity reads it
// through CurrentUserID; nothing else is trusted.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		claims, err := VerifySessionToken(token)
		if err != nil {
			return utils.HandleError(c, utils.AuthError("Invalid or expired token"))
		}
		uid, err := claims.UserID()
		if err != nil {
			return utils.HandleError(c, utils.AuthError("Invalid or expired token"))
		}

		c.Locals(userIDLocal, uid)
		c.SetUserContext(logger.WithUserID(c.UserContext(), strconv.FormatUint(uint64(uid), 10)))
		return c.Next()
	}
}

// BearerToken pulls the token out of the Authorization header.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUserID returns the authenticated caller id set by RequireAuth.
func CurrentUserID(c *fiber.Ctx) (uint, error) {
	uid, ok := c.Locals(userIDLocal).(uint)
	if !ok || uid == 0 {
		return 0, utils.AuthError("Unauthorized")
	}
	return uid, nil
}
