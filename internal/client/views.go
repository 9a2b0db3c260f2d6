package client

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

// Підписи типів оголошень для відображення
var listingTypeLabels = map[string]string{
	models.ListingTypeOfferHousing: "Здаю житло",
	models.ListingTypeFindRoommate: "Шукаю сусіда",
	models.ListingTypeFindHousing:  "Шукаю житло",
}

// ListingTypeLabel повертає підпис типу оголошення
func ListingTypeLabel(listingType string) string {
	if label, ok := listingTypeLabels[listingType]; ok {
		return label
	}
	return listingType
}

// esc екранує текст користувача перед вставкою в розмітку
func esc(s string) string {
	return html.EscapeString(s)
}

// RenderListingCard будує картку оголошення для списку
func RenderListingCard(listing models.Listing) string {
	var b strings.Builder

	b.WriteString(`<div class="listing-card" data-id="` + listing.ID.String() + `">`)

	photo := ""
	for _, p := range listing.Photos {
		if p.IsMain {
			photo = p.URL
			break
		}
	}
	if photo == "" && len(listing.Photos) > 0 {
		photo = listing.Photos[0].URL
	}
	if photo != "" {
		b.WriteString(`<img class="listing-photo" src="` + esc(photo) + `" alt="">`)
	} else {
		b.WriteString(`<div class="listing-photo placeholder"></div>`)
	}

	b.WriteString(`<span class="listing-type">` + esc(ListingTypeLabel(listing.Type)) + `</span>`)
	b.WriteString(`<h3 class="listing-title">` + esc(listing.Title) + `</h3>`)
	b.WriteString(fmt.Sprintf(`<span class="listing-price">%d грн/міс</span>`, listing.Price))

	location := listing.City
	if listing.District != "" {
		location += ", " + listing.District
	}
	b.WriteString(`<span class="listing-location">` + esc(location) + `</span>`)

	if listing.IsFavorite {
		b.WriteString(`<button class="favorite-btn active">♥</button>`)
	} else {
		b.WriteString(`<button class="favorite-btn">♡</button>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

// RenderListings будує список карток або стан порожнього списку
func RenderListings(listings []models.Listing) string {
	if len(listings) == 0 {
		return `<p class="empty-state">Оголошень не знайдено</p>`
	}

	var b strings.Builder
	for _, listing := range listings {
		b.WriteString(RenderListingCard(listing))
	}
	return b.String()
}

// RenderMessage будує бульбашку повідомлення в чаті.
// Власні повідомлення вирівнюються праворуч, чужі — ліворуч.
func RenderMessage(message models.Message, currentUserID string) string {
	side := "incoming"
	if message.SenderID.String() == currentUserID {
		side = "outgoing"
	}

	var b strings.Builder
	b.WriteString(`<div class="message ` + side + `">`)
	b.WriteString(`<p class="message-text">` + esc(message.Text) + `</p>`)
	b.WriteString(`<span class="message-time">` + message.CreatedAt.Format("15:04") + `</span>`)
	b.WriteString(`</div>`)
	return b.String()
}

// RenderConversationItem будує елемент списку розмов
func RenderConversationItem(conv models.Conversation, currentUserID string) string {
	other := conv.Sender
	if other != nil && other.ID.String() == currentUserID {
		other = conv.Receiver
	}

	name := "Користувач"
	if other != nil {
		name = strings.TrimSpace(other.FirstName + " " + other.LastName)
		if name == "" {
			name = "Користувач"
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="conversation" data-id="` + conv.ID.String() + `">`)
	b.WriteString(`<span class="conversation-name">` + esc(name) + `</span>`)

	if conv.LastMessageText != "" {
		b.WriteString(`<span class="conversation-preview">` + esc(conv.LastMessageText) + `</span>`)
	}
	if conv.LastMessageTime != nil {
		b.WriteString(`<span class="conversation-time">` + formatRelativeTime(*conv.LastMessageTime) + `</span>`)
	}
	if conv.UnreadCount > 0 {
		b.WriteString(fmt.Sprintf(`<span class="unread-badge">%d</span>`, conv.UnreadCount))
	}

	b.WriteString(`</div>`)
	return b.String()
}

// RenderNotificationItem будує елемент панелі сповіщень
func RenderNotificationItem(n models.Notification) string {
	class := "notification"
	if !n.IsRead {
		class += " unread"
	}

	var b strings.Builder
	b.WriteString(`<div class="` + class + `">`)
	if n.Link != "" {
		b.WriteString(`<a href="` + esc(n.Link) + `">` + esc(n.Message) + `</a>`)
	} else {
		b.WriteString(`<span>` + esc(n.Message) + `</span>`)
	}
	b.WriteString(`<span class="notification-time">` + formatRelativeTime(n.CreatedAt) + `</span>`)
	b.WriteString(`</div>`)
	return b.String()
}

// RenderNotifications будує панель сповіщень або стан порожньої панелі
func RenderNotifications(notifications []models.Notification) string {
	if len(notifications) == 0 {
		return `<p class="empty-state">Сповіщень немає</p>`
	}

	var b strings.Builder
	for _, n := range notifications {
		b.WriteString(RenderNotificationItem(n))
	}
	return b.String()
}

// RenderProfile будує блок профілю користувача
func RenderProfile(user models.User) string {
	var b strings.Builder

	b.WriteString(`<div class="profile">`)
	if user.AvatarURL != "" {
		b.WriteString(`<img class="avatar" src="` + esc(user.AvatarURL) + `" alt="">`)
	} else {
		b.WriteString(`<div class="avatar placeholder"></div>`)
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	b.WriteString(`<h2 class="profile-name">` + esc(name) + `</h2>`)

	if user.City != "" {
		b.WriteString(`<span class="profile-city">` + esc(user.City) + `</span>`)
	}
	if user.Bio != "" {
		b.WriteString(`<p class="profile-bio">` + esc(user.Bio) + `</p>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

// formatRelativeTime форматує час відносно поточного моменту
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "щойно"
	case diff < time.Hour:
		return fmt.Sprintf("%d хв тому", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d год тому", int(diff.Hours()))
	default:
		return t.Format("02.01.2006")
	}
}
