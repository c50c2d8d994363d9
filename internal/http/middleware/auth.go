package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alunosapi/internal/model"
	"alunosapi/internal/service"
)

// UserLocalKey is the key under which RequireAuth stores the resolved user
// in Fiber's context locals.
const UserLocalKey = "auth_user"

// RequireAuth resolves the session identity once per request, from the auth
// cookie or an Authorization bearer token, and stores the user in context
// locals. Requests without a valid session are rejected with 401 before any
// downstream handler runs, so no store call is ever issued anonymously.
func RequireAuth(auth service.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if token == "" {
			return fiber.ErrUnauthorized
		}

		user, err := auth.CurrentUser(c.UserContext(), token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the user stored by RequireAuth.
func UserFromCtx(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals(UserLocalKey).(*model.User)
	return u, ok
}
