package geocoding

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
)

// Рівні наближення мапи залежно від точності запиту:
// адреса точніша за район, район точніший за місто
const (
	ZoomAddress  = 17
	ZoomDistrict = 14
	ZoomCity     = 11

	reverseZoom = 18 // рівень вулиці для зворотного геокодування
)

// GeocodingService проксіює запити до геокодера (Nominatim),
// щоб браузерні клієнти не зверталися до стороннього сервісу напряму
type GeocodingService struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewGeocodingService створює новий екземпляр GeocodingService
func NewGeocodingService(cfg *config.Config) *GeocodingService {
	return &GeocodingService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// forwardResult представляє елемент відповіді прямого геокодування
type forwardResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// reverseResult представляє відповідь зворотного геокодування
type reverseResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Suburb      string `json:"suburb"`
		Borough     string `json:"borough"`
		Road        string `json:"road"`
		HouseNumber string `json:"house_number"`
	} `json:"address"`
}

// ZoomForQuery вибирає рівень наближення за специфічністю запиту
func ZoomForQuery(city, district, address string) int {
	switch {
	case address != "":
		return ZoomAddress
	case district != "":
		return ZoomDistrict
	default:
		return ZoomCity
	}
}

// Forward виконує пряме геокодування за текстовими полями адреси
func (s *GeocodingService) Forward(c fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	district := strings.TrimSpace(c.Query("district"))
	address := strings.TrimSpace(c.Query("address"))

	if city == "" && district == "" && address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вкажіть місто, район або адресу"})
	}

	// Збираємо запит від найточнішого поля до найзагальнішого
	var parts []string
	for _, part := range []string{address, district, city} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	query := strings.Join(parts, ", ")

	// Результати обмежені одним збігом
	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1&accept-language=%s",
		s.cfg.GeocoderConfig.BaseURL, url.QueryEscape(query), s.cfg.GeocoderConfig.Language)

	resp, err := s.httpClient.Get(reqURL)
	if err != nil {
		log.Printf("Помилка запиту до геокодера: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Сервіс геокодування недоступний"})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Геокодер повернув статус %d", resp.StatusCode)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Сервіс геокодування недоступний"})
	}

	var results []forwardResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Printf("Помилка розбору відповіді геокодера: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Невірна відповідь сервісу геокодування"})
	}

	if len(results) == 0 {
		return c.JSON(fiber.Map{
			"found":   false,
			"message": "Місце не знайдено",
		})
	}

	return c.JSON(fiber.Map{
		"found":        true,
		"lat":          results[0].Lat,
		"lon":          results[0].Lon,
		"display_name": results[0].DisplayName,
		"zoom":         ZoomForQuery(city, district, address),
	})
}

// Reverse виконує зворотне геокодування за координатами
func (s *GeocodingService) Reverse(c fiber.Ctx) error {
	lat := c.Query("lat")
	lon := c.Query("lon")

	if lat == "" || lon == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вкажіть координати"})
	}

	reqURL := fmt.Sprintf("%s/reverse?lat=%s&lon=%s&format=json&zoom=%d&accept-language=%s",
		s.cfg.GeocoderConfig.BaseURL, url.QueryEscape(lat), url.QueryEscape(lon),
		reverseZoom, s.cfg.GeocoderConfig.Language)

	resp, err := s.httpClient.Get(reqURL)
	if err != nil {
		log.Printf("Помилка запиту до геокодера: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Сервіс геокодування недоступний"})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Геокодер повернув статус %d", resp.StatusCode)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Сервіс геокодування недоступний"})
	}

	var result reverseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("Помилка розбору відповіді геокодера: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Невірна відповідь сервісу геокодування"})
	}

	// Nominatim повертає населений пункт в одному з трьох полів
	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}

	district := result.Address.Suburb
	if district == "" {
		district = result.Address.Borough
	}

	address := result.Address.Road
	if address != "" && result.Address.HouseNumber != "" {
		address += ", " + result.Address.HouseNumber
	}

	return c.JSON(fiber.Map{
		"city":         city,
		"district":     district,
		"address":      address,
		"display_name": result.DisplayName,
	})
}
