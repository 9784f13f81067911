package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"todoai/pkg/logger"
	"todoai/pkg/utils"
)

// Protected middleware validates JWT tokens and sets user context
// owner ของทุก task operation มาจาก c.Locals("user") ที่ตั้งตรงนี้เท่านั้น
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "Token has expired")
			case errors.Is(err, utils.ErrMissingToken):
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		c.Locals(utils.UserLocalsKey, userCtx)
		c.SetUserContext(logger.ContextWithUserID(c.UserContext(), userCtx.ID.String()))

		return c.Next()
	}
}
