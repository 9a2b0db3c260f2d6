package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

func TestRenderListingCardEscapesUserContent(t *testing.T) {
	listing := models.Listing{
		ID:    uuid.New(),
		Type:  models.ListingTypeOfferHousing,
		Title: `<script>alert("xss")</script>`,
		City:  "Київ",
		Price: 6000,
	}

	html := RenderListingCard(listing)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Здаю житло")
	assert.Contains(t, html, "6000 грн/міс")
}

func TestRenderListingCardMainPhotoFirst(t *testing.T) {
	listing := models.Listing{
		ID:    uuid.New(),
		Type:  models.ListingTypeFindRoommate,
		Title: "Шукаю сусіда",
		City:  "Львів",
		Photos: []models.ListingPhoto{
			{URL: "https://cdn.example.com/second.jpg"},
			{URL: "https://cdn.example.com/main.jpg", IsMain: true},
		},
	}

	html := RenderListingCard(listing)
	assert.Contains(t, html, "main.jpg")
	assert.NotContains(t, html, "second.jpg")
}

func TestRenderListingsEmptyState(t *testing.T) {
	html := RenderListings(nil)
	assert.Contains(t, html, "Оголошень не знайдено")
}

func TestRenderMessageSides(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	own := RenderMessage(models.Message{SenderID: me, Text: "привіт"}, me.String())
	assert.Contains(t, own, "outgoing")

	theirs := RenderMessage(models.Message{SenderID: other, Text: "привіт"}, me.String())
	assert.Contains(t, theirs, "incoming")
}

func TestRenderMessageEscapesText(t *testing.T) {
	html := RenderMessage(models.Message{Text: `<img src=x onerror=alert(1)>`}, "")
	assert.NotContains(t, html, "<img")
}

func TestRenderConversationItemShowsOtherParticipant(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	now := time.Now()
	conv := models.Conversation{
		ID:              uuid.New(),
		Sender:          &models.PublicUser{ID: me, FirstName: "Я"},
		Receiver:        &models.PublicUser{ID: other, FirstName: "Олена", LastName: "Петренко"},
		LastMessageText: "До зустрічі",
		LastMessageTime: &now,
		UnreadCount:     2,
	}

	html := RenderConversationItem(conv, me.String())

	assert.Contains(t, html, "Олена Петренко")
	assert.Contains(t, html, "До зустрічі")
	assert.Contains(t, html, `<span class="unread-badge">2</span>`)
}

func TestRenderNotificationsEmptyState(t *testing.T) {
	html := RenderNotifications(nil)
	assert.Contains(t, html, "Сповіщень немає")
}

func TestRenderNotificationItemUnread(t *testing.T) {
	html := RenderNotificationItem(models.Notification{
		Message:   "Нове повідомлення",
		Link:      "/chat",
		IsRead:    false,
		CreatedAt: time.Now(),
	})

	assert.Contains(t, html, "unread")
	assert.Contains(t, html, `href="/chat"`)
	assert.Contains(t, html, "щойно")
}

func TestFormatRelativeTime(t *testing.T) {
	assert.Equal(t, "щойно", formatRelativeTime(time.Now()))
	assert.Equal(t, "5 хв тому", formatRelativeTime(time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "3 год тому", formatRelativeTime(time.Now().Add(-3*time.Hour)))

	old := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "15.01.2026", formatRelativeTime(old))
}
