package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alunosapi/internal/http/middleware"
	"alunosapi/internal/model"
	"alunosapi/internal/service"
	"alunosapi/internal/validation"
)

// ownerFromCtx returns the authenticated user placed in locals by
// middleware.RequireAuth. Handlers registered outside that middleware
// never reach the ok==false branch; it exists so a wiring mistake fails
// closed instead of reading another user's rows.
func ownerFromCtx(c *fiber.Ctx) (*model.User, bool) {
	return middleware.UserFromCtx(c)
}

// ListStudents returns the caller's students, newest first.
func ListStudents(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := ownerFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		res, err := svc.List(c.UserContext(), user.ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// CreateStudent validates the form payload and inserts a new record.
func CreateStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := ownerFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		var in validation.StudentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		student, err := svc.Create(c.UserContext(), user.ID, in)
		if err != nil {
			var fieldErrs validation.FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				return writeFieldErrors(c, fieldErrs)
			case errors.Is(err, service.ErrDuplicateMatricula):
				return writeError(c, fiber.StatusConflict, "DUPLICATE_MATRICULA", "Esta matrícula já está cadastrada")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(student)
	}
}

// GetStudent returns one of the caller's students by id.
func GetStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := ownerFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		student, err := svc.Get(c.UserContext(), user.ID, id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Aluno não encontrado")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(student)
	}
}

// UpdateStudent validates the form payload and replaces an existing record
// in full. The stored matricula is never changed by this operation.
func UpdateStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := ownerFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var in validation.StudentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		if err := svc.Update(c.UserContext(), user.ID, id, in); err != nil {
			var fieldErrs validation.FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				return writeFieldErrors(c, fieldErrs)
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Aluno não encontrado")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteStudent removes one of the caller's students. Deleting an id that
// is already gone reports 404; the client must not assume double-delete is
// safe.
func DeleteStudent(svc service.StudentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := ownerFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), user.ID, id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Aluno não encontrado")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
