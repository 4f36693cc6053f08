package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"task-manager/internal/apperror"
	"task-manager/pkg/logger"
	"task-manager/pkg/token"
)

// LocalsUserID is the request locals key holding the authenticated user id.
const LocalsUserID = "userID"

// TokenVerifier validates a bearer token and returns the user id inside it.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user id for downstream handlers.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperror.Unauthorized("You are not logged in! Please login to get access.")
		}

		userID, err := verifier.Verify(parts[1])
		if err != nil {
			logger.SecurityLogger.Warn("Rejected token", zap.String("url", c.OriginalURL()), zap.Error(err))
			if errors.Is(err, token.ErrExpired) {
				return apperror.Unauthorized("Your token has expired! Please login again!")
			}
			return apperror.Unauthorized("Invalid token, Please login again!")
		}

		c.Locals(LocalsUserID, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or "" outside RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}
