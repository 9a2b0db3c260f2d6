package geocoding

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes налаштовує публічні маршрути геокодування
func (s *GeocodingService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/geocode")

	// Пряме геокодування: текстова адреса -> координати
	api.Get("/forward", s.Forward)

	// Зворотне геокодування: координати -> поля адреси
	api.Get("/reverse", s.Reverse)
}
