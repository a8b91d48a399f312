package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/amigo-app/amigo-api/internal/identity"
	"github.com/amigo-app/amigo-api/internal/token"
)

// UserKey is the Locals key holding the authenticated user.
const UserKey = "auth_user"

// BearerAuth guards protected routes. It verifies the bearer token and loads
// the member it identifies; every failure collapses to the same 401 so the
// response never reveals whether the token or the account was the problem.
// The concrete reason goes to the log.
func BearerAuth(tokens *token.Issuer, users identity.Repository, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return unauthorized(c, logger, "missing bearer token")
		}

		phone, err := tokens.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return unauthorized(c, logger, "token rejected: "+err.Error())
		}

		user, err := users.FindByPhone(c.UserContext(), phone)
		if err != nil {
			return unauthorized(c, logger, "token subject has no account")
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the member loaded by BearerAuth, if any.
func CurrentUser(c *fiber.Ctx) (identity.User, bool) {
	user, ok := c.Locals(UserKey).(identity.User)
	return user, ok
}

func unauthorized(c *fiber.Ctx, logger *slog.Logger, reason string) error {
	requestID, _ := c.Locals(requestIDHeader).(string)
	logger.Warn("unauthorized request",
		slog.String("path", c.Path()),
		slog.String("reason", reason),
		slog.String("request_id", requestID),
	)
	return fiber.NewError(http.StatusUnauthorized, "Sin autorización")
}
