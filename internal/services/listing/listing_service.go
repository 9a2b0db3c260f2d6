package listing

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
	"github.com/darynakulchii/StudentHousing-sub000/internal/utils"
)

// RequestPhoto представляє структуру фотографії в запиті створення оголошення
type RequestPhoto struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	FileName string `json:"file_name"`
	IsMain   bool   `json:"is_main"`
}

// listingRequest представляє тіло запиту створення/оновлення оголошення
type listingRequest struct {
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Price           int            `json:"price"`
	City            string         `json:"city"`
	District        string         `json:"district"`
	Address         string         `json:"address"`
	Latitude        *float64       `json:"latitude"`
	Longitude       *float64       `json:"longitude"`
	Characteristics []string       `json:"characteristics"`
	Status          string         `json:"status"`
	Photos          []RequestPhoto `json:"photos"`
}

// ListingService представляє сервіс для роботи з оголошеннями
type ListingService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewListingService створює новий екземпляр ListingService
func NewListingService(cfg *config.Config) *ListingService {
	return &ListingService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// validateListingRequest перевіряє обов'язкові поля оголошення
func validateListingRequest(req *listingRequest) string {
	if !models.ValidListingTypes[req.Type] {
		return "Вкажіть тип оголошення"
	}

	if req.Title == "" {
		return "Назва обов'язкова"
	}

	if req.City == "" {
		return "Вкажіть місто"
	}

	if req.Price < 0 {
		return "Ціна не може бути від'ємною"
	}

	if len(req.Photos) > models.MaxListingPhotos {
		return fmt.Sprintf("Можна додати не більше %d фотографій", models.MaxListingPhotos)
	}

	if req.Status != models.ListingStatusActive && req.Status != models.ListingStatusInactive {
		req.Status = models.ListingStatusActive
	}

	return ""
}

// CreateListing обробляє створення нового оголошення
func (s *ListingService) CreateListing(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Користувач не авторизований"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	var requestData listingRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Помилка декодування тіла запиту: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	if msg := validateListingRequest(&requestData); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	// Створюємо ID для нового оголошення
	listingID := uuid.New()

	// Починаємо транзакцію
	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Помилка початку транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}
	defer tx.Rollback(ctx)

	// Вставляємо оголошення
	_, err = tx.Exec(ctx, `
		INSERT INTO listings (id, user_id, type, title, description, price, city, district, address,
		                      latitude, longitude, characteristics, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, listingID, userUUID, requestData.Type, requestData.Title, requestData.Description,
		requestData.Price, requestData.City, requestData.District, requestData.Address,
		requestData.Latitude, requestData.Longitude, requestData.Characteristics, requestData.Status)

	if err != nil {
		log.Printf("Помилка вставки оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка збереження оголошення"})
	}

	// Вставляємо фотографії, якщо вони є
	if err = insertPhotos(ctx, tx, listingID, requestData.Photos); err != nil {
		log.Printf("Помилка вставки фотографій: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка збереження фотографій"})
	}

	// Фіксуємо транзакцію
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Помилка фіксації транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"listing_id": listingID,
		"message":    "Оголошення успішно створено",
	})
}

// GetMyListings повертає список оголошень поточного користувача
func (s *ListingService) GetMyListings(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Користувач не авторизований"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	// Параметри фільтрації та пагінації
	status := c.Query("status", "all") // all, active, inactive
	limit := 20
	offsetStr := c.Query("offset", "0")
	offset, _ := strconv.Atoi(offsetStr)

	ctx, cancel := db.GetContext()
	defer cancel()

	var rows pgx.Rows
	var queryErr error

	if status == "all" {
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, user_id, type, title, description, price, city, district, address,
			       latitude, longitude, characteristics, status, created_at, updated_at
			FROM listings
			WHERE user_id = $1
			ORDER BY updated_at DESC
			LIMIT $2 OFFSET $3
		`, userUUID, limit, offset)
	} else {
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, user_id, type, title, description, price, city, district, address,
			       latitude, longitude, characteristics, status, created_at, updated_at
			FROM listings
			WHERE user_id = $1 AND status = $2
			ORDER BY updated_at DESC
			LIMIT $3 OFFSET $4
		`, userUUID, status, limit, offset)
	}

	if queryErr != nil {
		log.Printf("Помилка запиту оголошень: %v", queryErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання оголошень"})
	}
	defer rows.Close()

	listings := scanListings(ctx, rows)

	// Отримуємо загальну кількість оголошень для пагінації
	var total int
	var countErr error

	if status == "all" {
		countErr = db.Pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM listings WHERE user_id = $1
		`, userUUID).Scan(&total)
	} else {
		countErr = db.Pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM listings WHERE user_id = $1 AND status = $2
		`, userUUID, status).Scan(&total)
	}

	if countErr != nil {
		log.Printf("Помилка підрахунку оголошень: %v", countErr)
		// Ігноруємо помилку, просто не повернемо загальну кількість
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetListing повертає детальну інформацію про оголошення
func (s *ListingService) GetListing(c fiber.Ctx) error {
	listingID := c.Params("id")
	if listingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID оголошення не вказано"})
	}

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	userIDStr := c.Locals("userID").(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var listing models.Listing
	err = db.Pool.QueryRow(ctx, `
		SELECT id, user_id, type, title, description, price, city, district, address,
		       latitude, longitude, characteristics, status, created_at, updated_at
		FROM listings
		WHERE id = $1
	`, listingUUID).Scan(
		&listing.ID, &listing.UserID, &listing.Type, &listing.Title, &listing.Description,
		&listing.Price, &listing.City, &listing.District, &listing.Address,
		&listing.Latitude, &listing.Longitude, &listing.Characteristics, &listing.Status,
		&listing.CreatedAt, &listing.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Оголошення не знайдено"})
		}
		log.Printf("Помилка отримання оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання оголошення"})
	}

	// Неактивне оголошення може бачити тільки автор
	if listing.Status == models.ListingStatusInactive && listing.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас немає доступу до цього оголошення"})
	}

	listing.Photos = loadPhotos(ctx, listing.ID)

	// Отримуємо інформацію про автора
	author, err := db.GetPublicUser(listing.UserID)
	if err != nil && err != pgx.ErrNoRows {
		log.Printf("Помилка отримання даних користувача: %v", err)
	}
	listing.Author = author

	return c.JSON(fiber.Map{
		"listing":  listing,
		"is_owner": listing.UserID == userID,
	})
}

// UpdateListing оновлює існуюче оголошення
func (s *ListingService) UpdateListing(c fiber.Ctx) error {
	listingID := c.Params("id")
	userIDStr := c.Locals("userID").(string)

	if listingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID оголошення не вказано"})
	}

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	var requestData listingRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Помилка декодування тіла запиту: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	if msg := validateListingRequest(&requestData); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	// Перевіряємо, що оголошення існує та належить користувачу
	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, "SELECT user_id FROM listings WHERE id = $1", listingUUID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Оголошення не знайдено"})
		}
		log.Printf("Помилка запиту оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання оголошення"})
	}

	if ownerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас немає доступу до редагування цього оголошення"})
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Помилка початку транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}
	defer tx.Rollback(ctx)

	// Оновлюємо основну інформацію оголошення
	_, err = tx.Exec(ctx, `
		UPDATE listings
		SET type = $1, title = $2, description = $3, price = $4, city = $5, district = $6,
		    address = $7, latitude = $8, longitude = $9, characteristics = $10, status = $11,
		    updated_at = NOW()
		WHERE id = $12
	`, requestData.Type, requestData.Title, requestData.Description, requestData.Price,
		requestData.City, requestData.District, requestData.Address,
		requestData.Latitude, requestData.Longitude, requestData.Characteristics,
		requestData.Status, listingUUID)

	if err != nil {
		log.Printf("Помилка оновлення оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка оновлення оголошення"})
	}

	// Якщо є фотографії, оновлюємо їх
	if len(requestData.Photos) > 0 {
		// Спочатку видаляємо всі існуючі фотографії
		_, err = tx.Exec(ctx, "DELETE FROM listing_photos WHERE listing_id = $1", listingUUID)
		if err != nil {
			log.Printf("Помилка видалення старих фотографій: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка оновлення фотографій"})
		}

		if err = insertPhotos(ctx, tx, listingUUID, requestData.Photos); err != nil {
			log.Printf("Помилка вставки фотографій: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка збереження фотографій"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Помилка фіксації транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"listing_id": listingID,
		"message":    "Оголошення успішно оновлено",
	})
}

// ToggleListingStatus перемикає статус оголошення active <-> inactive
func (s *ListingService) ToggleListingStatus(c fiber.Ctx) error {
	listingID := c.Params("id")
	userIDStr := c.Locals("userID").(string)

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	var status string
	err = db.Pool.QueryRow(ctx, "SELECT user_id, status FROM listings WHERE id = $1", listingUUID).Scan(&ownerID, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Оголошення не знайдено"})
		}
		log.Printf("Помилка запиту оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання оголошення"})
	}

	if ownerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас немає доступу до цього оголошення"})
	}

	newStatus := models.ListingStatusActive
	if status == models.ListingStatusActive {
		newStatus = models.ListingStatusInactive
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW() WHERE id = $2
	`, newStatus, listingUUID)

	if err != nil {
		log.Printf("Помилка зміни статусу оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка зміни статусу"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  newStatus,
	})
}

// DeleteListing видаляє оголошення
func (s *ListingService) DeleteListing(c fiber.Ctx) error {
	listingID := c.Params("id")
	userIDStr := c.Locals("userID").(string)

	if listingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID оголошення не вказано"})
	}

	listingUUID, err := uuid.Parse(listingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, "SELECT user_id FROM listings WHERE id = $1", listingUUID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Оголошення не знайдено"})
		}
		log.Printf("Помилка запиту оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання оголошення"})
	}

	if ownerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас немає доступу до видалення цього оголошення"})
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Помилка початку транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}
	defer tx.Rollback(ctx)

	// Спочатку видаляємо записи обраного, щоб кеш обраного
	// залишався підмножиною існуючих оголошень
	_, err = tx.Exec(ctx, "DELETE FROM favorites WHERE listing_id = $1", listingUUID)
	if err != nil {
		log.Printf("Помилка видалення обраного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка видалення оголошення"})
	}

	// Видаляємо пов'язані фотографії
	_, err = tx.Exec(ctx, "DELETE FROM listing_photos WHERE listing_id = $1", listingUUID)
	if err != nil {
		log.Printf("Помилка видалення фотографій: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка видалення оголошення"})
	}

	// Видаляємо саме оголошення
	_, err = tx.Exec(ctx, "DELETE FROM listings WHERE id = $1", listingUUID)
	if err != nil {
		log.Printf("Помилка видалення оголошення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка видалення оголошення"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Помилка фіксації транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Оголошення успішно видалено",
	})
}

// GetPublicListings повертає список публічних активних оголошень з фільтрами
func (s *ListingService) GetPublicListings(c fiber.Ctx) error {
	// Параметри фільтрації та пагінації
	limit := 20
	offsetStr := c.Query("offset", "0")
	offset, _ := strconv.Atoi(offsetStr)

	listingType := c.Query("type")
	city := c.Query("city")
	minPrice, _ := strconv.Atoi(c.Query("min_price", "0"))
	maxPrice, _ := strconv.Atoi(c.Query("max_price", "0"))

	// Збираємо умови фільтрації
	query := `
		SELECT id, user_id, type, title, description, price, city, district, address,
		       latitude, longitude, characteristics, status, created_at, updated_at
		FROM listings
		WHERE status = 'active'`
	countQuery := `SELECT COUNT(*) FROM listings WHERE status = 'active'`
	args := []interface{}{}
	argPos := 1

	if listingType != "" && models.ValidListingTypes[listingType] {
		cond := fmt.Sprintf(" AND type = $%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, listingType)
		argPos++
	}

	if city != "" {
		cond := fmt.Sprintf(" AND city ILIKE $%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, city)
		argPos++
	}

	if minPrice > 0 {
		cond := fmt.Sprintf(" AND price >= $%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, minPrice)
		argPos++
	}

	if maxPrice > 0 {
		cond := fmt.Sprintf(" AND price <= $%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, maxPrice)
		argPos++
	}

	countArgs := make([]interface{}, len(args))
	copy(countArgs, args)

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, queryErr := db.Pool.Query(ctx, query, args...)
	if queryErr != nil {
		log.Printf("Помилка запиту оголошень: %v", queryErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання оголошень"})
	}
	defer rows.Close()

	listings := scanListings(ctx, rows)

	// Додаємо інформацію про авторів
	for i := range listings {
		author, err := db.GetPublicUser(listings[i].UserID)
		if err != nil && err != pgx.ErrNoRows {
			log.Printf("Помилка отримання даних користувача: %v", err)
		}
		listings[i].Author = author
	}

	var total int
	if countErr := db.Pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); countErr != nil {
		log.Printf("Помилка підрахунку оголошень: %v", countErr)
		// Ігноруємо помилку, просто не повернемо загальну кількість
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetListingPhotos повертає фотографії оголошення
func (s *ListingService) GetListingPhotos(c fiber.Ctx) error {
	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	photos := loadPhotos(ctx, listingUUID)
	return c.JSON(fiber.Map{"photos": photos})
}

// GetListingCharacteristics повертає характеристики оголошення
func (s *ListingService) GetListingCharacteristics(c fiber.Ctx) error {
	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var characteristics []string
	err = db.Pool.QueryRow(ctx, `
		SELECT characteristics FROM listings WHERE id = $1
	`, listingUUID).Scan(&characteristics)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Оголошення не знайдено"})
		}
		log.Printf("Помилка запиту характеристик: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання характеристик"})
	}

	return c.JSON(fiber.Map{"characteristics": characteristics})
}
