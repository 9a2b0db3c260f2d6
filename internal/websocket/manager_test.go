package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()

	select {
	case data := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("подія не надійшла")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()

	select {
	case <-client.send:
		t.Fatal("неочікувана подія")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	first := NewClient("user-a", nil, manager)
	second := NewClient("user-a", nil, manager)
	other := NewClient("user-b", nil, manager)
	manager.AddClient(first)
	manager.AddClient(second)
	manager.AddClient(other)

	manager.SendToUser("user-a", Event{Type: EventNewNotification})

	assert.Equal(t, EventNewNotification, receiveEvent(t, first).Type)
	assert.Equal(t, EventNewNotification, receiveEvent(t, second).Type)
	assertNoEvent(t, other)
}

func TestSendToUserOfflineIsNoop(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	// Немає паніки і зависання, подія просто пропускається
	manager.SendToUser("user-offline", Event{Type: EventNewNotification})
}

func TestSendToConversationExcludesSender(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	sender := NewClient("user-a", nil, manager)
	recipient := NewClient("user-b", nil, manager)
	outsider := NewClient("user-c", nil, manager)
	manager.AddClient(sender)
	manager.AddClient(recipient)
	manager.AddClient(outsider)

	manager.JoinConversation(sender.ID, "conv-1")
	manager.JoinConversation(recipient.ID, "conv-1")

	manager.SendToConversation("conv-1", Event{Type: EventReceiveMessage}, "user-a")

	assert.Equal(t, EventReceiveMessage, receiveEvent(t, recipient).Type)
	assertNoEvent(t, sender)
	assertNoEvent(t, outsider)
}

func TestSendToUserOutsideConversationSkipsRoomMembers(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	inRoom := NewClient("user-b", nil, manager)
	outside := NewClient("user-b", nil, manager)
	manager.AddClient(inRoom)
	manager.AddClient(outside)
	manager.JoinConversation(inRoom.ID, "conv-1")

	manager.SendToUserOutsideConversation("user-b", "conv-1", Event{Type: EventReceiveMessage})

	assert.Equal(t, EventReceiveMessage, receiveEvent(t, outside).Type)
	assertNoEvent(t, inRoom)
}

func TestMessageDeliveredOnceToEachRecipientConnection(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	sender := NewClient("user-a", nil, manager)
	recipientInRoom := NewClient("user-b", nil, manager)
	recipientOutside := NewClient("user-b", nil, manager)
	manager.AddClient(sender)
	manager.AddClient(recipientInRoom)
	manager.AddClient(recipientOutside)

	manager.JoinConversation(sender.ID, "conv-1")
	manager.JoinConversation(recipientInRoom.ID, "conv-1")

	// Доставка повідомлення: кімната розмови плюс з'єднання
	// отримувача поза кімнатою
	event := Event{Type: EventReceiveMessage, ConversationID: "conv-1"}
	manager.SendToConversation("conv-1", event, "user-a")
	manager.SendToUserOutsideConversation("user-b", "conv-1", event)

	// З'єднання в кімнаті отримує подію рівно один раз
	assert.Equal(t, EventReceiveMessage, receiveEvent(t, recipientInRoom).Type)
	assertNoEvent(t, recipientInRoom)

	// З'єднання поза кімнатою — також рівно один раз
	assert.Equal(t, EventReceiveMessage, receiveEvent(t, recipientOutside).Type)
	assertNoEvent(t, recipientOutside)

	assertNoEvent(t, sender)
}

func TestRemoveClientCleansRooms(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	client := NewClient("user-a", nil, manager)
	manager.AddClient(client)
	manager.JoinConversation(client.ID, "conv-1")

	require.True(t, manager.InConversation(client.ID, "conv-1"))

	manager.RemoveClient(client.ID)

	assert.False(t, manager.InConversation(client.ID, "conv-1"))

	// Повторне видалення безпечне
	manager.RemoveClient(client.ID)
}

func TestJoinConversationEmptyIDIgnored(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	client := NewClient("user-a", nil, manager)
	manager.AddClient(client)
	manager.JoinConversation(client.ID, "")

	assert.False(t, manager.InConversation(client.ID, ""))
}

func TestBroadcastUnreadCounts(t *testing.T) {
	manager := NewManager()
	defer manager.Shutdown()

	client := NewClient("user-a", nil, manager)
	manager.AddClient(client)

	manager.BroadcastUnreadCounts("user-a", 3)

	event := receiveEvent(t, client)
	assert.Equal(t, EventUnreadCount, event.Type)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, 3, payload["count"])
}
