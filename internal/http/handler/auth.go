package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"alunosapi/internal/config"
	"alunosapi/internal/http/middleware"
	"alunosapi/internal/service"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setAuthCookie(c *fiber.Ctx, cfg config.AuthConfig, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(cfg.TokenTTLHours) * time.Hour),
	})
}

func clearAuthCookie(c *fiber.Ctx, cfg config.AuthConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
}

// SignUp registers a new account and opens a session for it.
func SignUp(svc service.AuthService, cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SignUpInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, token, err := svc.SignUp(c.UserContext(), in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCredentialsRequired):
				return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "E-mail e senha são obrigatórios")
			case errors.Is(err, service.ErrEmailTaken):
				return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "Este e-mail já está em uso")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		setAuthCookie(c, cfg, token)
		return c.Status(fiber.StatusCreated).JSON(user.DTO())
	}
}

// SignIn verifies credentials and opens a session.
func SignIn(svc service.AuthService, cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in signInRequest
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, token, err := svc.SignIn(c.UserContext(), in.Email, in.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCredentialsRequired):
				return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "E-mail e senha são obrigatórios")
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "E-mail ou senha inválidos")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		setAuthCookie(c, cfg, token)
		return c.JSON(user.DTO())
	}
}

// SignOut clears the session cookie. It carries no payload: the only
// contract is that the session is gone when the call completes.
func SignOut(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clearAuthCookie(c, cfg)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the authenticated account. Registered behind RequireAuth.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.UserFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.JSON(user.DTO())
	}
}
