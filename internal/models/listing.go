package models

import (
	"time"

	"github.com/google/uuid"
)

// Типи оголошень: здаю житло, шукаю сусіда, шукаю житло
const (
	ListingTypeOfferHousing = "offer_housing"
	ListingTypeFindRoommate = "find_roommate"
	ListingTypeFindHousing  = "find_housing"
)

// Статуси оголошення
const (
	ListingStatusActive   = "active"
	ListingStatusInactive = "inactive"
)

// MaxListingPhotos — максимальна кількість фотографій в оголошенні
const MaxListingPhotos = 8

// ValidListingTypes містить допустимі типи оголошень
var ValidListingTypes = map[string]bool{
	ListingTypeOfferHousing: true,
	ListingTypeFindRoommate: true,
	ListingTypeFindHousing:  true,
}

// Listing представляє оголошення в системі
type Listing struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Price           int            `json:"price"`
	City            string         `json:"city"`
	District        string         `json:"district,omitempty"`
	Address         string         `json:"address,omitempty"`
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	Characteristics []string       `json:"characteristics"`
	Status          string         `json:"status"`
	Photos          []ListingPhoto `json:"photos"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Додаткові поля для API
	Author     *PublicUser `json:"author,omitempty"`
	IsFavorite bool        `json:"is_favorite,omitempty"`
}

// ListingPhoto представляє фотографію оголошення
type ListingPhoto struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	IsMain    bool      `json:"is_main"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingResponse представляє структуру відповіді API зі списком оголошень
type ListingResponse struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
