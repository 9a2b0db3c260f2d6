package chat

import (
	"github.com/gofiber/fiber/v3"

	"github.com/darynakulchii/StudentHousing-sub000/internal/middleware"
)

// SetupRoutes налаштовує маршрути для API розмов
func (s *ChatService) SetupRoutes(app *fiber.App) {
	// Група для API розмов
	api := app.Group("/api/conversations")

	// Захищені маршрути (потребують авторизації)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для отримання всіх розмов користувача
	api.Get("/", s.GetConversations)

	// Маршрут для створення нової розмови
	api.Post("/", s.CreateConversation)

	// Маршрут для отримання повідомлень розмови
	api.Get("/:id/messages", s.GetMessages)

	// Маршрут для надсилання повідомлення
	api.Post("/:id/messages", s.SendMessage)
}
