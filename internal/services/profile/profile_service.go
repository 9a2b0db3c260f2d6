package profile

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
	"github.com/darynakulchii/StudentHousing-sub000/internal/utils"
)

// ProfileService представляє сервіс для роботи з профілями користувачів
type ProfileService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewProfileService створює новий екземпляр ProfileService
func NewProfileService(cfg *config.Config) *ProfileService {
	return &ProfileService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetProfile повертає профіль поточного користувача
func (s *ProfileService) GetProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	user, err := db.GetUserByID(userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Користувача не знайдено"})
		}
		log.Printf("Помилка отримання профілю: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання профілю"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateProfile оновлює профіль поточного користувача
func (s *ProfileService) UpdateProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	var payload struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Bio       string `json:"bio"`
		City      string `json:"city"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	if payload.FirstName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ім'я обов'язкове"})
	}

	if err := db.UpdateProfile(userUUID, payload.FirstName, payload.LastName, payload.Phone, payload.Bio, payload.City); err != nil {
		log.Printf("Помилка оновлення профілю: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка оновлення профілю"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Профіль успішно оновлено",
	})
}

// GetPublicProfile повертає публічний профіль користувача за ID
func (s *ProfileService) GetPublicProfile(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	user, err := db.GetPublicUser(userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Користувача не знайдено"})
		}
		log.Printf("Помилка отримання публічного профілю: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання профілю"})
	}

	return c.JSON(fiber.Map{"user": user})
}
