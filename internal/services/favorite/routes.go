package favorite

import (
	"github.com/gofiber/fiber/v3"

	"github.com/darynakulchii/StudentHousing-sub000/internal/middleware"
)

// SetupRoutes налаштовує маршрути для API обраного
func (s *FavoriteService) SetupRoutes(app *fiber.App) {
	// Група для API обраного
	api := app.Group("/api/favorites")

	// Захищені маршрути (потребують авторизації)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для отримання списку обраних оголошень
	api.Get("/", s.GetFavorites)

	// Маршрут для отримання лише ID обраних оголошень (кеш клієнта)
	api.Get("/ids", s.GetFavoriteIDs)

	// Маршрут для додавання оголошення в обране
	api.Post("/", s.AddToFavorites)

	// Маршрут для видалення оголошення з обраного
	api.Delete("/:id", s.RemoveFromFavorites)

	// Маршрут для перевірки, чи знаходиться оголошення в обраному
	api.Get("/:id/check", s.CheckFavorite)
}
