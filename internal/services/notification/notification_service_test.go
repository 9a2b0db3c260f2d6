package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
	ws "github.com/darynakulchii/StudentHousing-sub000/internal/websocket"
)

func TestNewNotificationEvent(t *testing.T) {
	n := models.Notification{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Message:   "Ваше оголошення «Кімната біля КПІ» додали в обране",
		Link:      "/listings/" + uuid.New().String(),
		CreatedAt: time.Now(),
	}

	event, err := newNotificationEvent(n)
	require.NoError(t, err)

	assert.Equal(t, ws.EventNewNotification, event.Type)
	assert.Equal(t, n.UserID.String(), event.UserID)
	assert.Equal(t, n.CreatedAt, event.Timestamp)

	// Отримувач розбирає payload назад у сповіщення
	var decoded models.Notification
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, n.ID, decoded.ID)
	assert.Equal(t, n.Message, decoded.Message)
	assert.Equal(t, n.Link, decoded.Link)
	assert.False(t, decoded.IsRead)
}
