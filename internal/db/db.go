package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
)

// Pool представляє пул з'єднань з базою даних
var Pool *pgxpool.Pool

// InitDB ініціалізує з'єднання з базою даних
func InitDB(cfg *config.Config) error {
	var err error

	// Створюємо контекст з таймаутом для підключення
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Налаштовуємо конфігурацію пулу з'єднань
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("помилка при розборі URL бази даних: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	// Створюємо пул з'єднань
	Pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("помилка при створенні пулу з'єднань: %w", err)
	}

	// Перевіряємо з'єднання
	if err = Pool.Ping(ctx); err != nil {
		return fmt.Errorf("помилка при перевірці з'єднання: %w", err)
	}

	log.Println("✅ Успішне підключення до бази даних")
	return nil
}

// CloseDB закриває з'єднання з базою даних
func CloseDB() {
	if Pool != nil {
		Pool.Close()
	}
}

// GetContext повертає контекст з таймаутом для запитів до бази даних
func GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
