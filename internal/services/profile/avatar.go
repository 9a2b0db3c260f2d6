package profile

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
)

// UploadAvatar приймає multipart-файл аватара та завантажує його в Cloudinary
func (s *ProfileService) UploadAvatar(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Файл аватара не знайдено"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Помилка відкриття файлу: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка обробки файлу"})
	}
	defer file.Close()

	cld, err := cloudinary.NewFromParams(
		s.cfg.CloudinaryConfig.CloudName,
		s.cfg.CloudinaryConfig.APIKey,
		s.cfg.CloudinaryConfig.APISecret,
	)
	if err != nil {
		log.Printf("Помилка ініціалізації Cloudinary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка завантаження аватара"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   s.cfg.CloudinaryConfig.UploadFolder,
		PublicID: "avatar_" + userUUID.String(),
	})
	if err != nil {
		log.Printf("Помилка завантаження в Cloudinary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка завантаження аватара"})
	}

	if err := db.UpdateAvatar(userUUID, resp.SecureURL); err != nil {
		log.Printf("Помилка збереження URL аватара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка збереження аватара"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"avatar_url": resp.SecureURL,
	})
}

// generateSignature створює коректний підпис для Cloudinary
func (s *ProfileService) generateSignature(params map[string]string) string {
	// Сортуємо ключі параметрів
	var keys []string
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Формуємо рядок для підпису
	var signParts []string
	for _, k := range keys {
		signParts = append(signParts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	signatureString := strings.Join(signParts, "&")

	// Додаємо API-секрет в кінець рядка
	signatureString += s.cfg.CloudinaryConfig.APISecret

	h := sha1.New()
	h.Write([]byte(signatureString))

	return hex.EncodeToString(h.Sum(nil))
}

// GenerateUploadParams створює параметри для прямого завантаження
// фотографій оголошень з браузера в Cloudinary
func (s *ProfileService) GenerateUploadParams(c fiber.Ctx) error {
	// Генеруємо ID для оголошення, якщо не передано
	listingID := c.Query("listing_id")
	if listingID == "" {
		listingID = uuid.New().String()
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	params := map[string]string{
		"timestamp": timestamp,
	}

	signature := s.generateSignature(params)

	return c.JSON(fiber.Map{
		"timestamp":  timestamp,
		"signature":  signature,
		"api_key":    s.cfg.CloudinaryConfig.APIKey,
		"cloud_name": s.cfg.CloudinaryConfig.CloudName,
		"listing_id": listingID,
	})
}
