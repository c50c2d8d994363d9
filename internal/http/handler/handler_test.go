package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"alunosapi/internal/config"
	"alunosapi/internal/http/middleware"
	"alunosapi/internal/model"
	"alunosapi/internal/service"
	serviceMocks "alunosapi/internal/service/mocks"
	"alunosapi/internal/validation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testOwner = &model.User{ID: "owner-1", Email: "ana@example.com"}

// newAuthedApp wires handlers behind a stub session gate that always
// resolves testOwner, so handler behavior is tested in isolation.
func newAuthedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserLocalKey, testOwner)
		return c.Next()
	})
	return app
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func validCreatePayload() map[string]string {
	return map[string]string{
		"name":       "Ana Silva",
		"matricula":  "2024001",
		"course":     "Engenharia",
		"age":        "20",
		"birth_date": "2004-05-01",
	}
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListStudents(t *testing.T) {
	mockSvc := new(serviceMocks.MockStudentService)
	app := newAuthedApp()
	app.Get("/api/students", ListStudents(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.StudentListResult{
			Items: []model.Student{{ID: uuid.NewString(), Name: "Ana Silva"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, testOwner.ID).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.StudentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty list is 200 with zero items", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testOwner.ID).
			Return(&service.StudentListResult{Items: []model.Student{}, Total: 0}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testOwner.ID).
			Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateStudent(t *testing.T) {
	mockSvc := new(serviceMocks.MockStudentService)
	app := newAuthedApp()
	app.Post("/api/students", CreateStudent(mockSvc))

	t.Run("created", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testOwner.ID, mock.MatchedBy(func(in validation.StudentInput) bool {
			return in.Name == "Ana Silva" && in.Age == "20"
		})).Return(&model.Student{ID: "gen-id", Name: "Ana Silva"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/students", jsonBody(t, validCreatePayload()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var student model.Student
		json.NewDecoder(resp.Body).Decode(&student)
		assert.Equal(t, "gen-id", student.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation errors are field-keyed", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testOwner.ID, mock.Anything).
			Return(nil, validation.FieldErrors{
				"name": "O nome deve ter no mínimo 2 caracteres",
				"age":  "A idade deve ser maior que 0",
			}).Once()

		payload := validCreatePayload()
		payload["name"] = "A"
		payload["age"] = "0"

		req := httptest.NewRequest(http.MethodPost, "/api/students", jsonBody(t, payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "O nome deve ter no mínimo 2 caracteres", body.Fields["name"])
		assert.Equal(t, "A idade deve ser maior que 0", body.Fields["age"])
	})

	t.Run("duplicate matricula has its own message", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testOwner.ID, mock.Anything).
			Return(nil, service.ErrDuplicateMatricula).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/students", jsonBody(t, validCreatePayload()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "DUPLICATE_MATRICULA", body.Error.Code)
		assert.Equal(t, "Esta matrícula já está cadastrada", body.Error.Message)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/students", bytes.NewReader([]byte("{not json")))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetStudent(t *testing.T) {
	mockSvc := new(serviceMocks.MockStudentService)
	app := newAuthedApp()
	app.Get("/api/students/:id", GetStudent(mockSvc))

	id := uuid.NewString()

	t.Run("found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testOwner.ID, id).
			Return(&model.Student{ID: id, Course: "Medicina", Matricula: "2024001"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/students/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var student model.Student
		json.NewDecoder(resp.Body).Decode(&student)
		assert.Equal(t, "Medicina", student.Course)
		assert.Equal(t, "2024001", student.Matricula)
	})

	t.Run("invalid id format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/students/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_ID", body.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testOwner.ID, id).
			Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/students/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateStudent(t *testing.T) {
	mockSvc := new(serviceMocks.MockStudentService)
	app := newAuthedApp()
	app.Put("/api/students/:id", UpdateStudent(mockSvc))

	id := uuid.NewString()

	t.Run("updated", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testOwner.ID, id, mock.Anything).
			Return(nil).Once()

		payload := validCreatePayload()
		payload["course"] = "Medicina"

		req := httptest.NewRequest(http.MethodPut, "/api/students/"+id, jsonBody(t, payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("record vanished", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testOwner.ID, id, mock.Anything).
			Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/students/"+id, jsonBody(t, validCreatePayload()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteStudent(t *testing.T) {
	mockSvc := new(serviceMocks.MockStudentService)
	app := newAuthedApp()
	app.Delete("/api/students/:id", DeleteStudent(mockSvc))

	id := uuid.NewString()

	t.Run("deleted then gone", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, testOwner.ID, id).Return(nil).Once()
		mockSvc.On("Delete", mock.Anything, testOwner.ID, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/students/"+id, nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		req = httptest.NewRequest(http.MethodDelete, "/api/students/"+id, nil)
		resp, _ = app.Test(req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		mockSvc.AssertExpectations(t)
	})
}

func TestAuthHandlers(t *testing.T) {
	cfg := config.AuthConfig{CookieName: "registro_auth", TokenTTLHours: 1}

	t.Run("signup sets session cookie", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Post("/api/auth/signup", SignUp(mockAuth, cfg))

		mockAuth.On("SignUp", mock.Anything, mock.MatchedBy(func(in service.SignUpInput) bool {
			return in.Email == "ana@example.com"
		})).Return(&model.User{ID: "user-id", Email: "ana@example.com"}, "signed-token", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", jsonBody(t, map[string]string{
			"email":    "ana@example.com",
			"password": "s3cret",
		}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		cookie := resp.Header.Get("Set-Cookie")
		assert.Contains(t, cookie, "registro_auth=signed-token")

		var dto model.UserDTO
		json.NewDecoder(resp.Body).Decode(&dto)
		assert.Equal(t, "user-id", dto.ID)
	})

	t.Run("signup conflict on taken email", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Post("/api/auth/signup", SignUp(mockAuth, cfg))

		mockAuth.On("SignUp", mock.Anything, mock.Anything).
			Return(nil, "", service.ErrEmailTaken).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", jsonBody(t, map[string]string{
			"email":    "ana@example.com",
			"password": "s3cret",
		}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("signin rejects bad credentials", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Post("/api/auth/signin", SignIn(mockAuth, cfg))

		mockAuth.On("SignIn", mock.Anything, "ana@example.com", "wrong").
			Return(nil, "", service.ErrInvalidCredentials).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", jsonBody(t, map[string]string{
			"email":    "ana@example.com",
			"password": "wrong",
		}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("signout clears the cookie", func(t *testing.T) {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Post("/api/auth/signout", SignOut(cfg))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Set-Cookie"), "registro_auth=")
	})

	t.Run("me returns the session user", func(t *testing.T) {
		app := newAuthedApp()
		app.Get("/api/auth/me", Me())

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var dto model.UserDTO
		json.NewDecoder(resp.Body).Decode(&dto)
		assert.Equal(t, testOwner.ID, dto.ID)
	})
}

// TestSignedOutSessionIsReGated covers the gate invariant end to end: once
// the session is gone, a registry call is rejected and the student service
// is never reached.
func TestSignedOutSessionIsReGated(t *testing.T) {
	mockAuth := new(serviceMocks.MockAuthService)
	mockStudents := new(serviceMocks.MockStudentService)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	students := app.Group("/api/students", middleware.RequireAuth(mockAuth, "registro_auth"))
	students.Get("/", ListStudents(mockStudents))

	mockAuth.On("CurrentUser", mock.Anything, "stale-token").
		Return(nil, service.ErrInvalidSession).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/students/", nil)
	req.Header.Set("Cookie", "registro_auth=stale-token")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body errorPayload
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	mockStudents.AssertNotCalled(t, "List")
	mockAuth.AssertExpectations(t)
}
