package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation представляє розмову між двома користувачами
type Conversation struct {
	ID              uuid.UUID  `json:"id"`
	SenderID        uuid.UUID  `json:"sender_id"`
	ReceiverID      uuid.UUID  `json:"receiver_id"`
	ListingID       *uuid.UUID `json:"listing_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastMessageText string     `json:"last_message_text,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	IsActive        bool       `json:"is_active"`

	// Додаткові поля для API
	Sender      *PublicUser `json:"sender,omitempty"`
	Receiver    *PublicUser `json:"receiver,omitempty"`
	Listing     *Listing    `json:"listing,omitempty"`
	UnreadCount int         `json:"unread_count,omitempty"`
}

// Message представляє повідомлення в розмові
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Text           string    `json:"text"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Додаткові поля для API
	Sender *PublicUser `json:"sender,omitempty"`
}
