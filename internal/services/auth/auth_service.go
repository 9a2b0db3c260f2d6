package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
	"github.com/darynakulchii/StudentHousing-sub000/internal/utils"
)

// AuthService – структура для обробки авторизації
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService повертає JWT сервіс для middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// RegisterHandler створює нового користувача та повертає JWT
func (s *AuthService) RegisterHandler(c fiber.Ctx) error {
	var payload struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	// Валідація обов'язкових полів
	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вкажіть коректний email"})
	}

	if len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль має містити щонайменше 6 символів"})
	}

	if payload.Password != payload.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Паролі не співпадають"})
	}

	if payload.FirstName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ім'я обов'язкове"})
	}

	// Хешуємо пароль
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Помилка хешування пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка реєстрації"})
	}

	user, err := db.CreateUser(payload.Email, string(hash), payload.FirstName, payload.LastName)
	if err != nil {
		if strings.Contains(err.Error(), "вже існує") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Користувач з таким email вже існує"})
		}
		log.Printf("Помилка створення користувача: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка реєстрації"})
	}

	// Генеруємо JWT
	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Помилка генерації JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка генерації токена"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": jwtToken,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
	})
}

// LoginHandler перевіряє облікові дані, створює JWT та повертає його
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вкажіть email та пароль"})
	}

	user, passwordHash, err := db.GetUserByEmail(payload.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Невірний email або пароль"})
		}
		log.Printf("Помилка пошуку користувача: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка входу"})
	}

	if err = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Невірний email або пароль"})
	}

	if err = db.UpdateLastLogin(user.ID); err != nil {
		log.Printf("Помилка оновлення часу входу: %v", err)
		// Не критично, вхід продовжується
	}

	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Помилка генерації JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка генерації токена"})
	}

	return c.JSON(fiber.Map{
		"token": jwtToken,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"avatar_url": user.AvatarURL,
		},
	})
}

// ChangeEmailHandler змінює email поточного користувача
func (s *AuthService) ChangeEmailHandler(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	var payload struct {
		NewEmail string `json:"new_email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	payload.NewEmail = strings.TrimSpace(strings.ToLower(payload.NewEmail))
	if payload.NewEmail == "" || !strings.Contains(payload.NewEmail, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вкажіть коректний email"})
	}

	// Зміна email підтверджується поточним паролем
	hash, err := db.GetPasswordHash(userUUID)
	if err != nil {
		log.Printf("Помилка отримання хешу пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка зміни email"})
	}

	if err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Невірний пароль"})
	}

	if err = db.ChangeEmail(userUUID, payload.NewEmail); err != nil {
		if strings.Contains(err.Error(), "зайнятий") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Цей email вже зайнятий"})
		}
		log.Printf("Помилка зміни email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка зміни email"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email успішно змінено",
	})
}

// ChangePasswordHandler змінює пароль поточного користувача
func (s *AuthService) ChangePasswordHandler(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	if len(payload.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль має містити щонайменше 6 символів"})
	}

	if payload.NewPassword != payload.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Паролі не співпадають"})
	}

	hash, err := db.GetPasswordHash(userUUID)
	if err != nil {
		log.Printf("Помилка отримання хешу пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка зміни пароля"})
	}

	if err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(payload.CurrentPassword)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Невірний поточний пароль"})
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Помилка хешування пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка зміни пароля"})
	}

	if err = db.ChangePassword(userUUID, string(newHash)); err != nil {
		log.Printf("Помилка зміни пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка зміни пароля"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Пароль успішно змінено",
	})
}
