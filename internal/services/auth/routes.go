package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/darynakulchii/StudentHousing-sub000/internal/middleware"
)

// SetupRoutes реєструє маршрути в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	app.Post("/api/auth/register", s.RegisterHandler)
	app.Post("/api/auth/login", s.LoginHandler)

	// Захищені маршрути
	protected := app.Group("/api/auth")
	protected.Use(middleware.AuthMiddleware(s.jwtService))

	protected.Put("/email", s.ChangeEmailHandler)
	protected.Put("/password", s.ChangePasswordHandler)
}
