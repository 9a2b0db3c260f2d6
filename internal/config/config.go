package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config структура конфігурації
type Config struct {
	Port             string
	WSPort           string
	JWTSecret        string
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	CloudinaryConfig CloudinaryConfig
	GeocoderConfig   GeocoderConfig
	AppEnv           string
}

// DatabaseConfig містить конфігурацію бази даних
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CloudinaryConfig містить конфігурацію для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
	UploadPreset string
}

// GeocoderConfig містить конфігурацію геокодера (Nominatim)
type GeocoderConfig struct {
	BaseURL  string
	Language string
}

// LoadConfig завантажує змінні з .env
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ .env файл не знайдено, використовуємо змінні оточення")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "housing_user"),
		Password: getEnv("PGPASSWORD", "housing_pass"),
		Name:     getEnv("PGDATABASE", "housing"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// Формуємо рядок підключення до бази даних
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	cloudinaryConfig := CloudinaryConfig{
		CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "housing/avatars"),
		UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "housing_listings"),
	}

	geocoderConfig := GeocoderConfig{
		BaseURL:  getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		Language: getEnv("GEOCODER_LANGUAGE", "uk"),
	}

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		WSPort:           getEnv("WS_PORT", "3001"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DatabaseURL:      dbURL,
		DatabaseConfig:   dbConfig,
		CloudinaryConfig: cloudinaryConfig,
		GeocoderConfig:   geocoderConfig,
		AppEnv:           getEnv("APP_ENV", "production"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("❌ Помилка: не задано обов'язкову змінну оточення JWT_SECRET")
	}

	return cfg
}

// getEnv отримує змінну оточення або використовує значення за замовчуванням
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
