package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

func validRequest() *listingRequest {
	return &listingRequest{
		Type:  models.ListingTypeOfferHousing,
		Title: "Кімната біля КПІ",
		City:  "Київ",
		Price: 6000,
	}
}

func TestValidateListingRequest(t *testing.T) {
	assert.Empty(t, validateListingRequest(validRequest()))
}

func TestValidateListingRequestRejectsUnknownType(t *testing.T) {
	req := validRequest()
	req.Type = "sell_car"

	assert.Equal(t, "Вкажіть тип оголошення", validateListingRequest(req))
}

func TestValidateListingRequestRequiresTitleAndCity(t *testing.T) {
	req := validRequest()
	req.Title = ""
	assert.NotEmpty(t, validateListingRequest(req))

	req = validRequest()
	req.City = ""
	assert.NotEmpty(t, validateListingRequest(req))
}

func TestValidateListingRequestRejectsNegativePrice(t *testing.T) {
	req := validRequest()
	req.Price = -1

	assert.Equal(t, "Ціна не може бути від'ємною", validateListingRequest(req))
}

func TestValidateListingRequestPhotoCap(t *testing.T) {
	req := validRequest()
	req.Photos = make([]RequestPhoto, models.MaxListingPhotos)
	assert.Empty(t, validateListingRequest(req))

	req.Photos = make([]RequestPhoto, models.MaxListingPhotos+1)
	assert.NotEmpty(t, validateListingRequest(req))
}

func TestValidateListingRequestDefaultsStatus(t *testing.T) {
	req := validRequest()
	req.Status = "draft"

	assert.Empty(t, validateListingRequest(req))
	assert.Equal(t, models.ListingStatusActive, req.Status)

	req = validRequest()
	req.Status = models.ListingStatusInactive
	assert.Empty(t, validateListingRequest(req))
	assert.Equal(t, models.ListingStatusInactive, req.Status)
}
