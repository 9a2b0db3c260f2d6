package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager представляє центральний менеджер для всіх WebSocket з'єднань
type Manager struct {
	clients      map[uuid.UUID]*Client
	clientsMutex sync.RWMutex
	userClients  map[string]map[uuid.UUID]bool // userID -> map[clientID]bool
	userMutex    sync.RWMutex
	rooms        map[string]map[uuid.UUID]bool // conversationID -> map[clientID]bool
	roomsMutex   sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
}

// EventType визначає тип події WebSocket
type EventType string

const (
	// Клієнт -> сервер
	EventJoinUserRoom     EventType = "join_user_room"
	EventJoinConversation EventType = "join_conversation"

	// Сервер -> клієнт
	EventReceiveMessage  EventType = "receive_message"
	EventNewNotification EventType = "new_notification"
	EventUnreadCount     EventType = "unread_count"
	EventConnected       EventType = "connected"
	EventDisconnected    EventType = "disconnected"
)

// Event представляє структуру повідомлення для WebSocket
type Event struct {
	Type           EventType       `json:"type"`
	ConversationID string          `json:"conversation_id,omitempty"`
	UserID         string          `json:"user_id,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// NewManager створює новий екземпляр Manager
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[string]map[uuid.UUID]bool),
		rooms:       make(map[string]map[uuid.UUID]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// AddClient реєструє нового клієнта
func (m *Manager) AddClient(client *Client) {
	m.clientsMutex.Lock()
	m.clients[client.ID] = client
	m.clientsMutex.Unlock()

	// Зв'язуємо клієнта з користувачем
	m.userMutex.Lock()
	if _, exists := m.userClients[client.UserID]; !exists {
		m.userClients[client.UserID] = make(map[uuid.UUID]bool)
	}
	m.userClients[client.UserID][client.ID] = true
	m.userMutex.Unlock()

	log.Printf("WebSocket клієнт %s підключився для користувача %s", client.ID, client.UserID)
}

// RemoveClient видаляє клієнта
func (m *Manager) RemoveClient(clientID uuid.UUID) {
	m.clientsMutex.RLock()
	client, exists := m.clients[clientID]
	m.clientsMutex.RUnlock()

	if !exists {
		return
	}

	userID := client.UserID

	// Видаляємо клієнта зі зв'язку з користувачем
	m.userMutex.Lock()
	if clients, ok := m.userClients[userID]; ok {
		delete(clients, clientID)
		// Якщо це був останній клієнт користувача, видаляємо запис користувача
		if len(clients) == 0 {
			delete(m.userClients, userID)
		}
	}
	m.userMutex.Unlock()

	// Видаляємо клієнта з усіх кімнат розмов
	m.roomsMutex.Lock()
	for conversationID, members := range m.rooms {
		delete(members, clientID)
		if len(members) == 0 {
			delete(m.rooms, conversationID)
		}
	}
	m.roomsMutex.Unlock()

	// Видаляємо клієнта із загального списку
	m.clientsMutex.Lock()
	delete(m.clients, clientID)
	m.clientsMutex.Unlock()

	log.Printf("WebSocket клієнт %s відключився для користувача %s", clientID, userID)
}

// JoinConversation додає клієнта до кімнати розмови
func (m *Manager) JoinConversation(clientID uuid.UUID, conversationID string) {
	if conversationID == "" {
		return
	}

	m.roomsMutex.Lock()
	if _, exists := m.rooms[conversationID]; !exists {
		m.rooms[conversationID] = make(map[uuid.UUID]bool)
	}
	m.rooms[conversationID][clientID] = true
	m.roomsMutex.Unlock()
}

// InConversation перевіряє, чи приєднаний клієнт до кімнати розмови
func (m *Manager) InConversation(clientID uuid.UUID, conversationID string) bool {
	m.roomsMutex.RLock()
	defer m.roomsMutex.RUnlock()

	members, exists := m.rooms[conversationID]
	return exists && members[clientID]
}

// SendToUser надсилає подію всім з'єднанням конкретного користувача
func (m *Manager) SendToUser(userID string, event Event) {
	if userID == "" {
		return
	}

	m.userMutex.RLock()
	clientIDs, exists := m.userClients[userID]
	m.userMutex.RUnlock()

	if !exists || len(clientIDs) == 0 {
		// Користувач не онлайн, але подія все одно збережена в БД
		return
	}

	// Встановлюємо час події, якщо не встановлено
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Помилка серіалізації події: %v", err)
		return
	}

	for clientID := range clientIDs {
		m.deliver(clientID, eventJSON)
	}
}

// SendToUserOutsideConversation надсилає подію з'єднанням користувача,
// які не приєднані до кімнати розмови. У парі з SendToConversation кожне
// з'єднання отримувача отримує подію рівно один раз.
func (m *Manager) SendToUserOutsideConversation(userID, conversationID string, event Event) {
	if userID == "" {
		return
	}

	m.userMutex.RLock()
	clientIDs := make([]uuid.UUID, 0, len(m.userClients[userID]))
	for clientID := range m.userClients[userID] {
		clientIDs = append(clientIDs, clientID)
	}
	m.userMutex.RUnlock()

	if len(clientIDs) == 0 {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Помилка серіалізації події: %v", err)
		return
	}

	for _, clientID := range clientIDs {
		if m.InConversation(clientID, conversationID) {
			continue
		}
		m.deliver(clientID, eventJSON)
	}
}

// SendToConversation надсилає подію всім клієнтам у кімнаті розмови,
// крім з'єднань користувача excludeUserID (зазвичай відправника)
func (m *Manager) SendToConversation(conversationID string, event Event, excludeUserID string) {
	if conversationID == "" {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("Помилка серіалізації події: %v", err)
		return
	}

	m.roomsMutex.RLock()
	members := make([]uuid.UUID, 0, len(m.rooms[conversationID]))
	for clientID := range m.rooms[conversationID] {
		members = append(members, clientID)
	}
	m.roomsMutex.RUnlock()

	for _, clientID := range members {
		m.clientsMutex.RLock()
		client, exists := m.clients[clientID]
		m.clientsMutex.RUnlock()

		if !exists || client.UserID == excludeUserID {
			continue
		}

		m.deliver(clientID, eventJSON)
	}
}

// deliver кладе подію в чергу відправки клієнта в неблокуючому режимі
func (m *Manager) deliver(clientID uuid.UUID, eventJSON []byte) {
	m.clientsMutex.RLock()
	client, exists := m.clients[clientID]
	m.clientsMutex.RUnlock()

	if !exists {
		return
	}

	go func(c *Client) {
		select {
		case c.send <- eventJSON:
			// Подія успішно додана в чергу відправки
		default:
			// Канал заповнений, клієнт занадто повільний - закриваємо з'єднання
			log.Printf("Черга відправки переповнена для клієнта %s, закриваємо з'єднання", c.ID)
			c.conn.Close()
			m.RemoveClient(c.ID)
		}
	}(client)
}

// BroadcastUnreadCounts надсилає оновлену кількість непрочитаних розмов користувачу
func (m *Manager) BroadcastUnreadCounts(userID string, unreadCount int) {
	payload, _ := json.Marshal(map[string]int{"count": unreadCount})

	m.SendToUser(userID, Event{
		Type:      EventUnreadCount,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// Shutdown коректно завершує роботу менеджера WebSocket
func (m *Manager) Shutdown() {
	m.cancel()

	m.clientsMutex.Lock()
	for _, client := range m.clients {
		if client.conn != nil {
			client.conn.Close()
		}
	}
	m.clients = make(map[uuid.UUID]*Client)
	m.clientsMutex.Unlock()

	m.userMutex.Lock()
	m.userClients = make(map[string]map[uuid.UUID]bool)
	m.userMutex.Unlock()

	m.roomsMutex.Lock()
	m.rooms = make(map[string]map[uuid.UUID]bool)
	m.roomsMutex.Unlock()
}
