package client

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

// countingTransport рахує виконані HTTP-запити
type countingTransport struct {
	count int32
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&t.count, 1)
	return t.next.RoundTrip(req)
}

func newTestAPI(t *testing.T, handler http.HandlerFunc) (*API, *countingTransport) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport := &countingTransport{next: http.DefaultTransport}
	api := NewAPI(server.URL, nil)
	api.HTTP = &http.Client{Transport: transport}
	return api, transport
}

func TestRegistrationFormPasswordMismatchSkipsRequest(t *testing.T) {
	api, transport := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	form := &RegistrationForm{
		FirstName:       "Дарина",
		LastName:        "Кульчій",
		Email:           "daryna@example.com",
		Password:        "секрет123",
		ConfirmPassword: "інший-пароль",
	}

	_, sent := form.Submit(api)

	assert.False(t, sent)
	assert.Equal(t, "Паролі не співпадають", form.Errors["confirm_password"])
	assert.Zero(t, atomic.LoadInt32(&transport.count), "запит не мав виконуватись")
}

func TestRegistrationFormValidSubmit(t *testing.T) {
	api, transport := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		w.Write([]byte(`{"token": "t", "user": {"first_name": "Дарина"}}`))
	})

	form := &RegistrationForm{
		FirstName:       "Дарина",
		LastName:        "Кульчій",
		Email:           "Daryna@Example.com",
		Password:        "секрет123",
		ConfirmPassword: "секрет123",
	}

	res, sent := form.Submit(api)

	assert.True(t, sent)
	require.True(t, res.OK())
	assert.Equal(t, int32(1), atomic.LoadInt32(&transport.count))
}

func TestPhotoSelectionCap(t *testing.T) {
	selection := &PhotoSelection{}

	for i := 0; i < models.MaxListingPhotos; i++ {
		require.NoError(t, selection.Add(models.ListingPhoto{ID: uuid.New()}))
	}

	err := selection.Add(models.ListingPhoto{ID: uuid.New()})
	assert.Error(t, err)
	assert.Len(t, selection.Photos, models.MaxListingPhotos)
}

func TestPhotoSelectionAddAllStopsAtCap(t *testing.T) {
	selection := &PhotoSelection{}

	batch := make([]models.ListingPhoto, models.MaxListingPhotos+3)
	for i := range batch {
		batch[i] = models.ListingPhoto{ID: uuid.New()}
	}

	added := selection.AddAll(batch)

	assert.Equal(t, models.MaxListingPhotos, added)
	assert.Len(t, selection.Photos, models.MaxListingPhotos)
}

func TestStatusToggleAppliesServerResponse(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/listings/abc/toggle", r.URL.Path)
		w.Write([]byte(`{"status": "inactive"}`))
	})

	toggle := &StatusToggle{ListingID: "abc", Status: models.ListingStatusActive}

	fail := toggle.Toggle(api)

	require.Nil(t, fail)
	assert.Equal(t, models.ListingStatusInactive, toggle.Status)
}

func TestStatusToggleKeepsStatusOnFailure(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "щось пішло не так"}`))
	})

	toggle := &StatusToggle{ListingID: "abc", Status: models.ListingStatusActive}

	fail := toggle.Toggle(api)

	require.NotNil(t, fail)
	assert.Equal(t, FailServer, fail.Kind)
	// Статус не змінюється без підтвердження сервера
	assert.Equal(t, models.ListingStatusActive, toggle.Status)
}

func TestFavoriteSetToggleOptimistic(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	set := NewFavoriteSet(nil)

	fail := set.Toggle(api, "listing-1")
	require.Nil(t, fail)
	assert.True(t, set.Contains("listing-1"))

	fail = set.Toggle(api, "listing-1")
	require.Nil(t, fail)
	assert.False(t, set.Contains("listing-1"))
}

func TestFavoriteSetToggleRevertsOnFailure(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "помилка"}`))
	})

	set := NewFavoriteSet([]string{"listing-1"})

	fail := set.Toggle(api, "listing-1")

	require.NotNil(t, fail)
	assert.True(t, set.Contains("listing-1"), "невдале видалення повертає обране в кеш")

	fail = set.Toggle(api, "listing-2")
	require.NotNil(t, fail)
	assert.False(t, set.Contains("listing-2"), "невдале додавання відкочується")
}

func TestListingFormValidate(t *testing.T) {
	form := &ListingForm{
		Type:  "невідомий",
		Price: -100,
	}

	assert.False(t, form.Validate())
	assert.Contains(t, form.Errors, "type")
	assert.Contains(t, form.Errors, "title")
	assert.Contains(t, form.Errors, "city")
	assert.Contains(t, form.Errors, "price")

	form = &ListingForm{
		Type:  models.ListingTypeOfferHousing,
		Title: "Кімната біля КПІ",
		City:  "Київ",
		Price: 6000,
	}
	assert.True(t, form.Validate())
}
