package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"alunosapi/internal/config"
	"alunosapi/internal/http/middleware"
	"alunosapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay free of business logic; the session gate runs once per protected
// request and everything under /api/students is owner-scoped.
func RegisterRoutes(app *fiber.App, db *sql.DB, authSvc service.AuthService, studentSvc service.StudentService, authCfg config.AuthConfig) {
	// Serve the OpenAPI spec and a minimal Swagger UI shell
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoints: /health checks DB connectivity, /healthz is liveness only
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Session entry points
	auth := app.Group("/api/auth")
	auth.Post("/signup", SignUp(authSvc, authCfg))
	auth.Post("/signin", SignIn(authSvc, authCfg))
	auth.Post("/signout", SignOut(authCfg))
	auth.Get("/me", middleware.RequireAuth(authSvc, authCfg.CookieName), Me())

	// Student registry, gated by the session middleware
	students := app.Group("/api/students", middleware.RequireAuth(authSvc, authCfg.CookieName))
	students.Get("/", ListStudents(studentSvc))
	students.Post("/", CreateStudent(studentSvc))
	students.Get("/:id", GetStudent(studentSvc))
	students.Put("/:id", UpdateStudent(studentSvc))
	students.Delete("/:id", DeleteStudent(studentSvc))
}
