package client

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
	ws "github.com/darynakulchii/StudentHousing-sub000/internal/websocket"
)

// EventHandler обробляє вхідну подію каналу реального часу
type EventHandler func(event ws.Event)

// Channel — WebSocket-канал клієнта. Одне з'єднання на сесію:
// повторний виклик Connect при живому з'єднанні нічого не робить.
type Channel struct {
	URL     string
	Session *Session

	mu      sync.Mutex
	conn    *websocket.Conn
	handler EventHandler
	rooms   []string
}

// NewChannel створює канал реального часу
func NewChannel(url string, session *Session) *Channel {
	return &Channel{URL: url, Session: session}
}

// OnEvent встановлює обробник вхідних подій
func (c *Channel) OnEvent(handler EventHandler) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

// Connect відкриває з'єднання та приєднується до кімнати користувача
// й усіх відомих розмов. Без токена з'єднання не відкривається.
func (c *Channel) Connect(conversationIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	token := ""
	if c.Session != nil {
		token = c.Session.Token()
	}
	if token == "" {
		log.Printf("WebSocket: немає токена, з'єднання не відкрито")
		return nil
	}

	// Браузерний WebSocket не дозволяє заголовки, тому токен у query
	conn, _, err := websocket.DefaultDialer.Dial(c.URL+"?token="+token, nil)
	if err != nil {
		return err
	}

	c.conn = conn
	c.rooms = append([]string{}, conversationIDs...)

	if err := conn.WriteJSON(ws.Event{Type: ws.EventJoinUserRoom}); err != nil {
		log.Printf("Помилка приєднання до кімнати користувача: %v", err)
	}

	for _, id := range conversationIDs {
		if err := conn.WriteJSON(ws.Event{Type: ws.EventJoinConversation, ConversationID: id}); err != nil {
			log.Printf("Помилка приєднання до розмови %s: %v", id, err)
		}
	}

	go c.readLoop(conn)
	return nil
}

// JoinConversation приєднується до кімнати нової розмови
func (c *Channel) JoinConversation(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}

	for _, id := range c.rooms {
		if id == conversationID {
			return
		}
	}

	c.rooms = append(c.rooms, conversationID)
	if err := c.conn.WriteJSON(ws.Event{Type: ws.EventJoinConversation, ConversationID: conversationID}); err != nil {
		log.Printf("Помилка приєднання до розмови %s: %v", conversationID, err)
	}
}

// Close закриває з'єднання
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// readLoop читає події з з'єднання та передає їх обробнику
func (c *Channel) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()
	}()

	for {
		var event ws.Event
		if err := conn.ReadJSON(&event); err != nil {
			log.Printf("WebSocket з'єднання закрито: %v", err)
			return
		}

		c.Dispatch(event)
	}
}

// Dispatch розподіляє подію за типом. Службові події з'єднання
// лише логуються, стан інтерфейсу вони не змінюють.
func (c *Channel) Dispatch(event ws.Event) {
	switch event.Type {
	case ws.EventConnected, ws.EventDisconnected:
		log.Printf("WebSocket подія: %s", event.Type)
		return
	}

	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()

	if handler != nil {
		handler(event)
	}
}

// ChatState — стан панелі чату на клієнті
type ChatState struct {
	CurrentUserID      string
	OpenConversationID string
	Messages           []models.Message
}

// MessageDispatcher маршрутизує подію нового повідомлення:
// або додає його до відкритої розмови, або перезавантажує список розмов
type MessageDispatcher struct {
	State               *ChatState
	ReloadConversations func()
}

// HandleReceiveMessage обробляє подію receive_message.
// Повідомлення від співрозмовника у відкритій розмові додається до історії;
// будь-яке інше повідомлення лише оновлює список розмов. Рівно одна дія.
func (d *MessageDispatcher) HandleReceiveMessage(event ws.Event) {
	var message models.Message
	if err := json.Unmarshal(event.Payload, &message); err != nil {
		log.Printf("Помилка розбору повідомлення: %v", err)
		return
	}

	inOpenConversation := d.State.OpenConversationID != "" &&
		message.ConversationID.String() == d.State.OpenConversationID
	fromOther := message.SenderID.String() != d.State.CurrentUserID

	if inOpenConversation && fromOther {
		d.State.Messages = append(d.State.Messages, message)
		return
	}

	if d.ReloadConversations != nil {
		d.ReloadConversations()
	}
}

// NotificationState — стан панелі сповіщень на клієнті
type NotificationState struct {
	PanelOpen     bool
	UnreadCount   int
	Notifications []models.Notification
}

// NotificationController обробляє сповіщення в реальному часі
type NotificationController struct {
	State *NotificationState
	API   *API
}

// HandleNewNotification додає сповіщення на початок списку.
// Якщо панель відкрита, сповіщення одразу відмічаються прочитаними;
// інакше збільшується лічильник непрочитаних.
func (n *NotificationController) HandleNewNotification(event ws.Event) {
	var notification models.Notification
	if err := json.Unmarshal(event.Payload, &notification); err != nil {
		log.Printf("Помилка розбору сповіщення: %v", err)
		return
	}

	if n.State.PanelOpen {
		// Відкрита панель одразу показує сповіщення прочитаним
		notification.IsRead = true
		n.State.Notifications = append([]models.Notification{notification}, n.State.Notifications...)

		if fail := n.API.MarkNotificationsRead(); fail != nil {
			log.Printf("Помилка відмітки сповіщень: %v", fail)
		}
		return
	}

	n.State.Notifications = append([]models.Notification{notification}, n.State.Notifications...)
	n.State.UnreadCount++
}

// OpenPanel відкриває панель сповіщень та відмічає все прочитаним
func (n *NotificationController) OpenPanel() {
	n.State.PanelOpen = true

	if n.State.UnreadCount > 0 {
		if fail := n.API.MarkNotificationsRead(); fail != nil {
			log.Printf("Помилка відмітки сповіщень: %v", fail)
			return
		}
		n.State.UnreadCount = 0
		for i := range n.State.Notifications {
			n.State.Notifications[i].IsRead = true
		}
	}
}

// ClosePanel закриває панель сповіщень
func (n *NotificationController) ClosePanel() {
	n.State.PanelOpen = false
}
