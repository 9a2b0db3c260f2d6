package main

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/auth"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/chat"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/favorite"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/geocoding"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/listing"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/notification"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/profile"
	ws "github.com/darynakulchii/StudentHousing-sub000/internal/websocket"
)

func main() {
	// Завантажуємо конфігурацію
	cfg := config.LoadConfig()

	// Ініціалізуємо базу даних
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Помилка при ініціалізації бази даних: %v", err)
	}
	defer db.CloseDB()

	// Створюємо екземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "StudentHousing API",
		ErrorHandler: errorHandler,
	})

	// Додаємо middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Менеджер WebSocket з'єднань
	wsManager := ws.NewManager()
	defer wsManager.Shutdown()

	// Створюємо сервіси
	authService := auth.NewAuthService(cfg)
	listingService := listing.NewListingService(cfg)
	notificationService := notification.NewNotificationService(cfg, wsManager)
	favoriteService := favorite.NewFavoriteService(cfg, notificationService)
	chatService := chat.NewChatService(cfg, wsManager)
	profileService := profile.NewProfileService(cfg)
	geocodingService := geocoding.NewGeocodingService(cfg)

	// Реєструємо маршрути
	authService.SetupRoutes(app)
	listingService.SetupRoutes(app)
	listingService.SetupPublicRoutes(app)
	favoriteService.SetupRoutes(app)
	chatService.SetupRoutes(app)
	notificationService.SetupRoutes(app)
	profileService.SetupRoutes(app)
	geocodingService.SetupRoutes(app)

	// WebSocket сервер працює поруч з Fiber на окремому порту,
	// оскільки gorilla/websocket потребує стандартний net/http
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/ws", ws.Handler(wsManager, authService.GetJWTService()))

		log.Printf("✅ WebSocket сервер запущено на порту %s", cfg.WSPort)
		if err := http.ListenAndServe(":"+cfg.WSPort, mux); err != nil {
			log.Fatalf("❌ Помилка WebSocket сервера: %v", err)
		}
	}()

	// Запускаємо сервер
	log.Printf("✅ StudentHousing API запущено на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обробляє помилки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Перевіряємо, чи є помилка з Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Надсилаємо помилку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
