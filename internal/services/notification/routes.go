package notification

import (
	"github.com/gofiber/fiber/v3"

	"github.com/darynakulchii/StudentHousing-sub000/internal/middleware"
)

// SetupRoutes налаштовує маршрути для API сповіщень
func (s *NotificationService) SetupRoutes(app *fiber.App) {
	// Група для API сповіщень
	api := app.Group("/api/notifications")

	// Захищені маршрути (потребують авторизації)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для отримання сповіщень
	api.Get("/", s.GetNotifications)

	// Маршрут для масового відмічання як прочитаних
	api.Put("/read", s.MarkAllRead)
}
