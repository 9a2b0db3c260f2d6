package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Максимальний час очікування pong від клієнта
	pongWait = 60 * time.Second

	// Надсилати ping-повідомлення клієнту з цим інтервалом
	pingPeriod = (pongWait * 9) / 10

	// Максимальний розмір повідомлення від клієнта
	maxMessageSize = 512 * 1024 // 512KB

	// Розмір буфера для вихідних повідомлень
	writeBufferSize = 256
)

// Client представляє собою окреме WebSocket з'єднання
type Client struct {
	ID        uuid.UUID
	UserID    string
	conn      *websocket.Conn
	send      chan []byte // Буферизований канал вихідних повідомлень
	manager   *Manager
	closeChan chan struct{}
}

// NewClient створює новий екземпляр Client
func NewClient(userID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:        uuid.New(),
		UserID:    userID,
		conn:      conn,
		send:      make(chan []byte, writeBufferSize),
		manager:   manager,
		closeChan: make(chan struct{}),
	}
}

// Start запускає клієнтські горутини для читання та запису
func (c *Client) Start() {
	// Додаємо клієнта до менеджера
	c.manager.AddClient(c)

	go c.readPump()
	go c.writePump()
}

// readPump обробляє вхідні повідомлення від клієнта
func (c *Client) readPump() {
	defer func() {
		c.manager.RemoveClient(c.ID)
		c.conn.Close()
		close(c.closeChan)
	}()

	// Налаштовуємо з'єднання
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Нескінченний цикл читання повідомлень
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Неочікувана помилка закриття: %v", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// writePump надсилає повідомлення клієнту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Канал закритий, надсилаємо повідомлення про закриття з'єднання
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Помилка запису повідомлення: %v", err)
				return
			}
		case <-ticker.C:
			// Надсилаємо ping для підтримання з'єднання
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closeChan:
			return
		}
	}
}

// handleIncomingMessage обробляє вхідні повідомлення від клієнта
func (c *Client) handleIncomingMessage(message []byte) {
	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("Помилка розбору події: %v", err)
		return
	}

	// Перевіряємо, що userID у повідомленні відповідає userID клієнта,
	// щоб запобігти підробці відправника
	if event.UserID != "" && event.UserID != c.UserID {
		log.Printf("Невідповідність userID у повідомленні: %s проти %s", event.UserID, c.UserID)
		return
	}

	event.UserID = c.UserID
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	switch event.Type {
	case EventJoinUserRoom:
		// Клієнт вже зареєстрований за користувачем при підключенні,
		// подія залишена для сумісності з протоколом клієнта
	case EventJoinConversation:
		if event.ConversationID != "" {
			c.manager.JoinConversation(c.ID, event.ConversationID)
		}
	default:
		log.Printf("Необроблений тип події: %s", event.Type)
	}
}
