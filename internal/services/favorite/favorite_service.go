package favorite

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
	"github.com/darynakulchii/StudentHousing-sub000/internal/services/notification"
	"github.com/darynakulchii/StudentHousing-sub000/internal/utils"
)

// FavoriteService представляє сервіс для роботи з обраними оголошеннями
type FavoriteService struct {
	cfg           *config.Config
	jwtService    *utils.JWTService
	notifications *notification.NotificationService
}

// NewFavoriteService створює новий екземпляр FavoriteService
func NewFavoriteService(cfg *config.Config, notifications *notification.NotificationService) *FavoriteService {
	return &FavoriteService{
		cfg:           cfg,
		jwtService:    utils.NewJWTService(cfg.JWTSecret),
		notifications: notifications,
	}
}

// GetFavoriteIDs повертає список ID обраних оголошень користувача.
// Клієнт використовує його як локальний кеш для перемикання іконки.
func (s *FavoriteService) GetFavoriteIDs(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT listing_id FROM favorites WHERE user_id = $1
	`, userUUID)
	if err != nil {
		log.Printf("Помилка запиту обраного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання обраного"})
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			log.Printf("Помилка сканування рядка: %v", err)
			continue
		}
		ids = append(ids, id)
	}

	return c.JSON(fiber.Map{"listing_ids": ids})
}

// GetFavorites повертає список обраних оголошень з повними даними
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	limit := 20
	offsetStr := c.Query("offset", "0")
	offset, _ := strconv.Atoi(offsetStr)

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT f.id, f.user_id, f.listing_id, f.created_at,
		       l.id, l.user_id, l.type, l.title, l.description, l.price, l.city, l.district,
		       l.address, l.latitude, l.longitude, l.characteristics, l.status, l.created_at, l.updated_at
		FROM favorites f
		JOIN listings l ON l.id = f.listing_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userUUID, limit, offset)
	if err != nil {
		log.Printf("Помилка запиту обраного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання обраного"})
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		var listing models.Listing

		if err := rows.Scan(
			&fav.ID, &fav.UserID, &fav.ListingID, &fav.CreatedAt,
			&listing.ID, &listing.UserID, &listing.Type, &listing.Title, &listing.Description,
			&listing.Price, &listing.City, &listing.District, &listing.Address,
			&listing.Latitude, &listing.Longitude, &listing.Characteristics, &listing.Status,
			&listing.CreatedAt, &listing.UpdatedAt,
		); err != nil {
			log.Printf("Помилка сканування рядка: %v", err)
			continue
		}

		listing.IsFavorite = true
		fav.Listing = &listing
		favorites = append(favorites, fav)
	}

	var total int
	if err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM favorites WHERE user_id = $1
	`, userUUID).Scan(&total); err != nil {
		log.Printf("Помилка підрахунку обраного: %v", err)
		// Ігноруємо помилку, просто не повернемо загальну кількість
	}

	return c.JSON(models.FavoriteResponse{
		Favorites: favorites,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	})
}

// AddToFavorites додає оголошення в обране
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Користувач не авторизований"})
	}

	var requestData struct {
		ListingID string `json:"listing_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Помилка декодування тіла запиту: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	if requestData.ListingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID оголошення не вказано"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	listingUUID, err := uuid.Parse(requestData.ListingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	// Перевіряємо, чи існує активне оголошення, та дістаємо
	// власника і назву для сповіщення
	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	var listingTitle string
	err = db.Pool.QueryRow(ctx, `
		SELECT user_id, title FROM listings WHERE id = $1 AND status = 'active'
	`, listingUUID).Scan(&ownerID, &listingTitle)

	if err == pgx.ErrNoRows {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Оголошення не знайдено або не активне"})
	}
	if err != nil {
		log.Printf("Помилка перевірки існування оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки оголошення"})
	}

	// Перевіряємо, чи не додано вже це оголошення в обране
	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)
	`, userUUID, listingUUID).Scan(&exists)

	if err != nil {
		log.Printf("Помилка перевірки обраного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки обраного"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Оголошення вже додано в обране"})
	}

	favoriteID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO favorites (id, user_id, listing_id)
		VALUES ($1, $2, $3)
	`, favoriteID, userUUID, listingUUID)

	if err != nil {
		log.Printf("Помилка додавання в обране: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка додавання в обране"})
	}

	// Сповіщаємо власника оголошення, крім додавання власного
	if s.notifications != nil && ownerID != userUUID {
		message := fmt.Sprintf("Ваше оголошення «%s» додали в обране", listingTitle)
		if _, err := s.notifications.Create(ownerID, message, "/listings/"+listingUUID.String()); err != nil {
			log.Printf("Помилка створення сповіщення: %v", err)
			// Не критично, обране вже збережено
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      favoriteID,
		"message": "Оголошення успішно додано в обране",
	})
}

// RemoveFromFavorites видаляє оголошення з обраного
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	listingID := c.Params("id")

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2
	`, userUUID, listingUUID)

	if err != nil {
		log.Printf("Помилка видалення з обраного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка видалення з обраного"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Оголошення не знайдено в обраному"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Оголошення видалено з обраного",
	})
}

// CheckFavorite перевіряє, чи знаходиться оголошення в обраному
func (s *FavoriteService) CheckFavorite(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	listingID := c.Params("id")

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)
	`, userUUID, listingUUID).Scan(&exists)

	if err != nil && err != pgx.ErrNoRows {
		log.Printf("Помилка перевірки обраного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки обраного"})
	}

	return c.JSON(fiber.Map{"is_favorite": exists})
}
