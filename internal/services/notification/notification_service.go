package notification

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
	"github.com/darynakulchii/StudentHousing-sub000/internal/utils"
	ws "github.com/darynakulchii/StudentHousing-sub000/internal/websocket"
)

// NotificationService представляє сервіс для роботи зі сповіщеннями
type NotificationService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	wsManager  *ws.Manager
}

// NewNotificationService створює новий екземпляр NotificationService
func NewNotificationService(cfg *config.Config, wsManager *ws.Manager) *NotificationService {
	return &NotificationService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		wsManager:  wsManager,
	}
}

// GetNotifications повертає сповіщення користувача, нові спочатку
func (s *NotificationService) GetNotifications(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, message, COALESCE(link, ''), is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`, userUUID)
	if err != nil {
		log.Printf("Помилка запиту сповіщень: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання сповіщень"})
	}
	defer rows.Close()

	notifications := []models.Notification{}
	unread := 0
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			log.Printf("Помилка сканування сповіщення: %v", err)
			continue
		}
		if !n.IsRead {
			unread++
		}
		notifications = append(notifications, n)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkAllRead відмічає всі сповіщення користувача як прочитані.
// Окремі сповіщення ніколи не відмічаються — тільки масова дія.
func (s *NotificationService) MarkAllRead(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	_, err = db.Pool.Exec(ctx, `
		UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false
	`, userUUID)
	if err != nil {
		log.Printf("Помилка оновлення сповіщень: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка оновлення сповіщень"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Create зберігає сповіщення та надсилає його користувачу через WebSocket
func (s *NotificationService) Create(userID uuid.UUID, message, link string) (*models.Notification, error) {
	ctx, cancel := db.GetContext()
	defer cancel()

	n := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		Link:    link,
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, message, link, is_read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING created_at
	`, n.ID, n.UserID, n.Message, n.Link).Scan(&n.CreatedAt)
	if err != nil {
		return nil, err
	}

	if s.wsManager != nil {
		event, err := newNotificationEvent(n)
		if err != nil {
			log.Printf("Помилка серіалізації сповіщення: %v", err)
		} else {
			s.wsManager.SendToUser(userID.String(), event)
		}
	}

	return &n, nil
}

// newNotificationEvent будує WebSocket-подію для сповіщення
func newNotificationEvent(n models.Notification) (ws.Event, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return ws.Event{}, err
	}

	return ws.Event{
		Type:      ws.EventNewNotification,
		UserID:    n.UserID.String(),
		Timestamp: n.CreatedAt,
		Payload:   payload,
	}, nil
}
