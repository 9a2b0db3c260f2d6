package profile

import (
	"github.com/gofiber/fiber/v3"

	"github.com/darynakulchii/StudentHousing-sub000/internal/middleware"
)

// SetupRoutes налаштовує маршрути для API профілю
func (s *ProfileService) SetupRoutes(app *fiber.App) {
	// Захищені маршрути
	protected := app.Group("/api")
	protected.Use(middleware.AuthMiddleware(s.jwtService))

	// Профіль поточного користувача
	protected.Get("/profile", s.GetProfile)
	protected.Put("/profile", s.UpdateProfile)
	protected.Post("/profile/avatar", s.UploadAvatar)

	// Параметри прямого завантаження фотографій
	protected.Get("/upload/params", s.GenerateUploadParams)

	// Публічний профіль користувача
	app.Get("/api/users/:id", s.GetPublicProfile)
}
