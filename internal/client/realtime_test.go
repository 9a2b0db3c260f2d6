package client

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
	ws "github.com/darynakulchii/StudentHousing-sub000/internal/websocket"
)

func messageEvent(t *testing.T, message models.Message) ws.Event {
	t.Helper()

	payload, err := json.Marshal(message)
	require.NoError(t, err)

	return ws.Event{
		Type:           ws.EventReceiveMessage,
		ConversationID: message.ConversationID.String(),
		Timestamp:      time.Now(),
		Payload:        payload,
	}
}

func TestDispatcherAppendsToOpenConversation(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	conv := uuid.New()

	reloads := 0
	state := &ChatState{
		CurrentUserID:      me.String(),
		OpenConversationID: conv.String(),
	}
	dispatcher := &MessageDispatcher{
		State:               state,
		ReloadConversations: func() { reloads++ },
	}

	dispatcher.HandleReceiveMessage(messageEvent(t, models.Message{
		ID:             uuid.New(),
		ConversationID: conv,
		SenderID:       other,
		Text:           "Привіт!",
	}))

	// Рівно одна дія: повідомлення додано, список не перезавантажено
	assert.Len(t, state.Messages, 1)
	assert.Zero(t, reloads)
}

func TestDispatcherReloadsForOtherConversation(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	reloads := 0
	state := &ChatState{
		CurrentUserID:      me.String(),
		OpenConversationID: uuid.New().String(),
	}
	dispatcher := &MessageDispatcher{
		State:               state,
		ReloadConversations: func() { reloads++ },
	}

	dispatcher.HandleReceiveMessage(messageEvent(t, models.Message{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       other,
		Text:           "Інша розмова",
	}))

	assert.Empty(t, state.Messages)
	assert.Equal(t, 1, reloads)
}

func TestDispatcherReloadsForOwnEcho(t *testing.T) {
	me := uuid.New()
	conv := uuid.New()

	reloads := 0
	state := &ChatState{
		CurrentUserID:      me.String(),
		OpenConversationID: conv.String(),
	}
	dispatcher := &MessageDispatcher{
		State:               state,
		ReloadConversations: func() { reloads++ },
	}

	// Власне повідомлення вже показане при надсиланні,
	// тому подія лише оновлює список розмов
	dispatcher.HandleReceiveMessage(messageEvent(t, models.Message{
		ID:             uuid.New(),
		ConversationID: conv,
		SenderID:       me,
		Text:           "Моє повідомлення",
	}))

	assert.Empty(t, state.Messages)
	assert.Equal(t, 1, reloads)
}

func TestDispatcherIgnoresBrokenPayload(t *testing.T) {
	reloads := 0
	dispatcher := &MessageDispatcher{
		State:               &ChatState{},
		ReloadConversations: func() { reloads++ },
	}

	dispatcher.HandleReceiveMessage(ws.Event{
		Type:    ws.EventReceiveMessage,
		Payload: json.RawMessage(`не json`),
	})

	assert.Zero(t, reloads)
}

func notificationEvent(t *testing.T, n models.Notification) ws.Event {
	t.Helper()

	payload, err := json.Marshal(n)
	require.NoError(t, err)

	return ws.Event{Type: ws.EventNewNotification, Payload: payload}
}

func TestNotificationPrependAndCount(t *testing.T) {
	api, transport := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	state := &NotificationState{
		Notifications: []models.Notification{{ID: uuid.New(), Message: "старе"}},
	}
	controller := &NotificationController{State: state, API: api}

	controller.HandleNewNotification(notificationEvent(t, models.Notification{
		ID:      uuid.New(),
		Message: "нове",
	}))

	require.Len(t, state.Notifications, 2)
	assert.Equal(t, "нове", state.Notifications[0].Message)
	assert.Equal(t, 1, state.UnreadCount)
	assert.Zero(t, transport.count, "із закритою панеллю запит не потрібен")
}

func TestNotificationPanelOpenMarksRead(t *testing.T) {
	marked := 0
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/api/notifications/read" {
			marked++
		}
		w.Write([]byte(`{}`))
	})

	state := &NotificationState{PanelOpen: true}
	controller := &NotificationController{State: state, API: api}

	controller.HandleNewNotification(notificationEvent(t, models.Notification{
		ID:      uuid.New(),
		Message: "нове",
	}))

	assert.Zero(t, state.UnreadCount)
	assert.Equal(t, 1, marked)

	// Локальна копія одразу показується прочитаною
	require.Len(t, state.Notifications, 1)
	assert.True(t, state.Notifications[0].IsRead)
}

func TestNotificationOpenPanelResetsCount(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	state := &NotificationState{
		UnreadCount: 2,
		Notifications: []models.Notification{
			{ID: uuid.New(), Message: "перше"},
			{ID: uuid.New(), Message: "друге"},
		},
	}
	controller := &NotificationController{State: state, API: api}

	controller.OpenPanel()

	assert.True(t, state.PanelOpen)
	assert.Zero(t, state.UnreadCount)

	// Локальні копії узгоджені з масовою відміткою на сервері
	for _, notification := range state.Notifications {
		assert.True(t, notification.IsRead)
	}
}

func TestChannelLifecycleEventsDoNotReachHandler(t *testing.T) {
	channel := NewChannel("ws://localhost", nil)

	handled := 0
	channel.OnEvent(func(event ws.Event) { handled++ })

	channel.Dispatch(ws.Event{Type: ws.EventConnected})
	channel.Dispatch(ws.Event{Type: ws.EventDisconnected})
	assert.Zero(t, handled)

	channel.Dispatch(ws.Event{Type: ws.EventUnreadCount})
	assert.Equal(t, 1, handled)
}
