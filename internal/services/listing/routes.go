package listing

import (
	"github.com/gofiber/fiber/v3"

	"github.com/darynakulchii/StudentHousing-sub000/internal/middleware"
)

// SetupRoutes налаштовує маршрути для API оголошень.
// Авторизація вішається на кожен маршрут окремо, щоб публічний
// GET /api/listings не перехоплювався middleware групи.
func (s *ListingService) SetupRoutes(app *fiber.App) {
	// Група для API оголошень
	api := app.Group("/api/listings")
	auth := middleware.AuthMiddleware(s.jwtService)

	// Маршрут для створення оголошення
	api.Post("/create", s.CreateListing, auth)

	// Маршрут для отримання списку своїх оголошень
	api.Get("/my", s.GetMyListings, auth)

	// Маршрут для отримання одного оголошення за ID
	api.Get("/:id", s.GetListing, auth)

	// Маршрути для фотографій та характеристик оголошення
	api.Get("/:id/photos", s.GetListingPhotos, auth)
	api.Get("/:id/characteristics", s.GetListingCharacteristics, auth)

	// Маршрут для оновлення оголошення
	api.Put("/:id", s.UpdateListing, auth)

	// Маршрут для перемикання статусу оголошення
	api.Post("/:id/toggle", s.ToggleListingStatus, auth)

	// Маршрут для видалення оголошення
	api.Delete("/:id", s.DeleteListing, auth)
}

// SetupPublicRoutes налаштовує публічні маршрути для оголошень
func (s *ListingService) SetupPublicRoutes(app *fiber.App) {
	// Публічний маршрут для списку оголошень з фільтрами
	app.Get("/api/listings", s.GetPublicListings)
}
