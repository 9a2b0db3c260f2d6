package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
	"github.com/darynakulchii/StudentHousing-sub000/internal/utils"
	ws "github.com/darynakulchii/StudentHousing-sub000/internal/websocket"
)

// ChatService представляє сервіс для роботи з розмовами
type ChatService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	wsManager  *ws.Manager
}

// NewChatService створює новий екземпляр ChatService
func NewChatService(cfg *config.Config, wsManager *ws.Manager) *ChatService {
	return &ChatService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		wsManager:  wsManager,
	}
}

// GetConversations повертає список розмов користувача
func (s *ChatService) GetConversations(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Користувач не авторизований"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Запит списку розмов з кількістю непрочитаних повідомлень
	query := `
        SELECT c.id, c.sender_id, c.receiver_id, c.listing_id, c.created_at, c.updated_at,
               COALESCE(c.last_message_text, ''), c.last_message_time, c.is_active,
               COUNT(m.id) FILTER (WHERE m.sender_id != $1 AND m.is_read = false) AS unread_count
        FROM conversations c
        LEFT JOIN messages m ON c.id = m.conversation_id
        WHERE c.sender_id = $1 OR c.receiver_id = $1
        GROUP BY c.id
        ORDER BY c.last_message_time DESC NULLS LAST, c.created_at DESC
    `

	rows, err := db.Pool.Query(ctx, query, userUUID)
	if err != nil {
		log.Printf("Помилка запиту розмов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання розмов"})
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		var listingID *uuid.UUID
		var lastMessageTime *time.Time
		var unreadCount int

		if err := rows.Scan(
			&conv.ID,
			&conv.SenderID,
			&conv.ReceiverID,
			&listingID,
			&conv.CreatedAt,
			&conv.UpdatedAt,
			&conv.LastMessageText,
			&lastMessageTime,
			&conv.IsActive,
			&unreadCount,
		); err != nil {
			log.Printf("Помилка сканування рядка: %v", err)
			continue
		}

		conv.ListingID = listingID
		conv.LastMessageTime = lastMessageTime
		conv.UnreadCount = unreadCount

		// Отримуємо дані про іншого учасника розмови (не поточного користувача)
		if conv.SenderID == userUUID {
			conv.Receiver = getUserInfo(ctx, conv.ReceiverID)
		} else {
			conv.Sender = getUserInfo(ctx, conv.SenderID)
		}

		conversations = append(conversations, conv)
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// GetMessages повертає повідомлення конкретної розмови
func (s *ChatService) GetMessages(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	conversationID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Користувач не авторизований"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	conversationUUID, err := uuid.Parse(conversationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID розмови"})
	}

	// Перевіряємо, чи має користувач доступ до цієї розмови
	ctx, cancel := db.GetContext()
	defer cancel()

	var count int
	err = db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM conversations
        WHERE id = $1 AND (sender_id = $2 OR receiver_id = $2)
    `, conversationUUID, userUUID).Scan(&count)

	if err != nil {
		log.Printf("Помилка перевірки доступу до розмови: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки доступу до розмови"})
	}

	if count == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас немає доступу до цієї розмови"})
	}

	// Отримуємо повідомлення
	limit := 50

	before := c.Query("before")
	var query string
	var queryArgs []interface{}

	if before != "" {
		beforeUUID, err := uuid.Parse(before)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID повідомлення"})
		}

		query = `
            SELECT m.id, m.conversation_id, m.sender_id, m.text, m.is_read, m.created_at, m.updated_at
            FROM messages m
            WHERE m.conversation_id = $1 AND m.id < $2
            ORDER BY m.created_at DESC
            LIMIT $3
        `
		queryArgs = []interface{}{conversationUUID, beforeUUID, limit}
	} else {
		query = `
            SELECT m.id, m.conversation_id, m.sender_id, m.text, m.is_read, m.created_at, m.updated_at
            FROM messages m
            WHERE m.conversation_id = $1
            ORDER BY m.created_at DESC
            LIMIT $2
        `
		queryArgs = []interface{}{conversationUUID, limit}
	}

	rows, err := db.Pool.Query(ctx, query, queryArgs...)
	if err != nil {
		log.Printf("Помилка запиту повідомлень: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка отримання повідомлень"})
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SenderID,
			&msg.Text,
			&msg.IsRead,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		); err != nil {
			log.Printf("Помилка сканування повідомлення: %v", err)
			continue
		}

		msg.Sender = getUserInfo(ctx, msg.SenderID)
		messages = append(messages, msg)
	}

	// Відмічаємо повідомлення як прочитані
	_, err = db.Pool.Exec(ctx, `
        UPDATE messages
        SET is_read = true
        WHERE conversation_id = $1 AND sender_id != $2 AND is_read = false
    `, conversationUUID, userUUID)

	if err != nil {
		log.Printf("Помилка оновлення статусу прочитання: %v", err)
		// Не повертаємо помилку, бо основна функціональність виконана
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}

// SendMessage надсилає нове повідомлення
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	conversationID := c.Params("id")

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Користувач не авторизований"})
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID користувача"})
	}

	conversationUUID, err := uuid.Parse(conversationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID розмови"})
	}

	var requestData struct {
		Text string `json:"text"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Помилка читання тіла запиту: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	if requestData.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Текст повідомлення не може бути порожнім"})
	}

	// Перевіряємо, чи має користувач доступ до цієї розмови
	ctx, cancel := db.GetContext()
	defer cancel()

	var conv models.Conversation
	err = db.Pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, is_active FROM conversations
        WHERE id = $1 AND (sender_id = $2 OR receiver_id = $2)
    `, conversationUUID, userUUID).Scan(&conv.ID, &conv.SenderID, &conv.ReceiverID, &conv.IsActive)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас немає доступу до цієї розмови"})
		}
		log.Printf("Помилка перевірки доступу до розмови: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки доступу до розмови"})
	}

	if !conv.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Розмова неактивна"})
	}

	// Починаємо транзакцію
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Помилка початку транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}
	defer tx.Rollback(ctx)

	// Створюємо нове повідомлення
	messageID := uuid.New()
	now := time.Now()

	_, err = tx.Exec(ctx, `
        INSERT INTO messages (id, conversation_id, sender_id, text, is_read, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, messageID, conversationUUID, userUUID, requestData.Text, false, now, now)

	if err != nil {
		log.Printf("Помилка створення повідомлення: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка збереження повідомлення"})
	}

	// Оновлюємо інформацію про розмову
	_, err = tx.Exec(ctx, `
        UPDATE conversations
        SET last_message_text = $1, last_message_time = $2, updated_at = $3
        WHERE id = $4
    `, requestData.Text, now, now, conversationUUID)

	if err != nil {
		log.Printf("Помилка оновлення інформації про розмову: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка оновлення інформації про розмову"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Помилка фіксації транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}

	message := models.Message{
		ID:             messageID,
		ConversationID: conversationUUID,
		SenderID:       userUUID,
		Text:           requestData.Text,
		IsRead:         false,
		CreatedAt:      now,
		UpdatedAt:      now,
		Sender:         getUserInfo(ctx, userUUID),
	}

	// Надсилаємо подію отримувачу через WebSocket: у кімнату розмови
	// та на всі з'єднання отримувача (для оновлення списку розмов)
	recipientID := conv.ReceiverID
	if recipientID == userUUID {
		recipientID = conv.SenderID
	}
	s.pushMessage(conversationUUID.String(), userUUID.String(), recipientID.String(), message)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"success": true,
	})
}

// pushMessage доставляє повідомлення отримувачу через WebSocket
func (s *ChatService) pushMessage(conversationID, senderID, recipientID string, message models.Message) {
	if s.wsManager == nil {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Помилка серіалізації повідомлення: %v", err)
		return
	}

	event := ws.Event{
		Type:           ws.EventReceiveMessage,
		ConversationID: conversationID,
		UserID:         senderID,
		Timestamp:      message.CreatedAt,
		Payload:        payload,
	}

	// Кімната покриває відкриті розмови, решта з'єднань отримувача
	// отримує подію для оновлення списку. Кожне з'єднання — рівно раз.
	s.wsManager.SendToConversation(conversationID, event, senderID)
	s.wsManager.SendToUserOutsideConversation(recipientID, conversationID, event)
}

// CreateConversation створює нову розмову між користувачами
func (s *ChatService) CreateConversation(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Користувач не авторизований"})
	}

	var requestData struct {
		ReceiverID string `json:"receiver_id"`
		ListingID  string `json:"listing_id,omitempty"`
		Message    string `json:"message,omitempty"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Помилка читання тіла запиту: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат даних"})
	}

	if requestData.ReceiverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID отримувача не вказано"})
	}

	senderUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID відправника"})
	}

	receiverUUID, err := uuid.Parse(requestData.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID отримувача"})
	}

	// Перевіряємо, що користувач не створює розмову з самим собою
	if senderUUID == receiverUUID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Не можна створити розмову з самим собою"})
	}

	// Перевіряємо, чи існує отримувач
	ctx, cancel := db.GetContext()
	defer cancel()

	var count int
	err = db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE id = $1", receiverUUID).Scan(&count)
	if err != nil {
		log.Printf("Помилка перевірки існування отримувача: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки отримувача"})
	}

	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Отримувача не знайдено"})
	}

	// Перевіряємо, чи існує вже розмова між цими користувачами
	var existingID *uuid.UUID
	err = db.Pool.QueryRow(ctx, `
        SELECT id FROM conversations
        WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
    `, senderUUID, receiverUUID).Scan(&existingID)

	if err != nil && err != pgx.ErrNoRows {
		log.Printf("Помилка перевірки існуючої розмови: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки існування розмови"})
	}

	// Якщо розмова існує, повертаємо її ID
	if existingID != nil {
		if requestData.Message != "" {
			if err := s.appendMessage(ctx, *existingID, senderUUID, receiverUUID, requestData.Message); err != nil {
				log.Printf("Помилка надсилання повідомлення: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка збереження повідомлення"})
			}
		}

		return c.JSON(fiber.Map{
			"conversation_id": existingID,
			"is_new":          false,
			"success":         true,
		})
	}

	// Перетворюємо ListingID в UUID, якщо він вказаний
	var listingUUID *uuid.UUID
	if requestData.ListingID != "" {
		parsed, err := uuid.Parse(requestData.ListingID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невірний формат ID оголошення"})
		}
		listingUUID = &parsed

		var listingExists bool
		err = db.Pool.QueryRow(ctx, `
            SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)
        `, listingUUID).Scan(&listingExists)

		if err != nil {
			log.Printf("Помилка перевірки існування оголошення: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка перевірки оголошення"})
		}

		if !listingExists {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Вказане оголошення не знайдено"})
		}
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Помилка початку транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}
	defer tx.Rollback(ctx)

	// Створюємо нову розмову
	conversationID := uuid.New()
	now := time.Now()

	_, err = tx.Exec(ctx, `
        INSERT INTO conversations (id, listing_id, sender_id, receiver_id, created_at, updated_at, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, conversationID, listingUUID, senderUUID, receiverUUID, now, now, true)

	if err != nil {
		log.Printf("Помилка створення розмови: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка створення розмови"})
	}

	// Якщо вказане початкове повідомлення, створюємо його
	if requestData.Message != "" {
		messageID := uuid.New()

		_, err = tx.Exec(ctx, `
            INSERT INTO messages (id, conversation_id, sender_id, text, is_read, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `, messageID, conversationID, senderUUID, requestData.Message, false, now, now)

		if err != nil {
			log.Printf("Помилка створення повідомлення: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка збереження повідомлення"})
		}

		_, err = tx.Exec(ctx, `
            UPDATE conversations
            SET last_message_text = $1, last_message_time = $2
            WHERE id = $3
        `, requestData.Message, now, conversationID)

		if err != nil {
			log.Printf("Помилка оновлення інформації про розмову: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка оновлення інформації про розмову"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Помилка фіксації транзакції: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Помилка бази даних"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"conversation_id": conversationID,
		"is_new":          true,
		"success":         true,
	})
}

// appendMessage додає повідомлення до існуючої розмови та сповіщає отримувача
func (s *ChatService) appendMessage(ctx context.Context, conversationID, senderID, receiverID uuid.UUID, text string) error {
	now := time.Now()
	messageID := uuid.New()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO messages (id, conversation_id, sender_id, text, is_read, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, messageID, conversationID, senderID, text, false, now, now)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        UPDATE conversations
        SET last_message_text = $1, last_message_time = $2, updated_at = $3
        WHERE id = $4
    `, text, now, now, conversationID)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	message := models.Message{
		ID:             messageID,
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		IsRead:         false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.pushMessage(conversationID.String(), senderID.String(), receiverID.String(), message)

	return nil
}

// getUserInfo отримує базову інформацію про користувача
func getUserInfo(ctx context.Context, userID uuid.UUID) *models.PublicUser {
	user, err := db.GetPublicUser(userID)
	if err != nil {
		log.Printf("Помилка отримання даних користувача %s: %v", userID, err)
		return nil
	}

	return user
}
