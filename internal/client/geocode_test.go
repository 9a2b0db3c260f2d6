package client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Geocoder{
		BaseURL:  server.URL,
		Language: "uk",
		HTTP:     server.Client(),
	}
}

func stubForward(lat, lon string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"lat": "%s", "lon": "%s", "display_name": "Київ, Україна"}]`, lat, lon)
	}
}

func TestForwardZoomMatchesSpecificity(t *testing.T) {
	geocoder := newTestGeocoder(t, stubForward("50.4501", "30.5234"))

	tests := []struct {
		name     string
		city     string
		district string
		address  string
		zoom     int
	}{
		{"лише місто", "Київ", "", "", zoomCity},
		{"місто та район", "Київ", "Солом'янський", "", zoomDistrict},
		{"повна адреса", "Київ", "Солом'янський", "просп. Берестейський, 37", zoomAddress},
		{"адреса без району", "Київ", "", "просп. Берестейський, 37", zoomAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := geocoder.Forward(tt.city, tt.district, tt.address)
			require.NoError(t, err)
			require.True(t, result.Found)
			assert.Equal(t, tt.zoom, result.Zoom)
		})
	}
}

func TestForwardParsesCoordinates(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "uk", r.URL.Query().Get("accept-language"))
		stubForward("50.4501", "30.5234")(w, r)
	})

	result, err := geocoder.Forward("Київ", "", "")

	require.NoError(t, err)
	assert.InDelta(t, 50.4501, result.Lat, 0.0001)
	assert.InDelta(t, 30.5234, result.Lon, 0.0001)
}

func TestForwardEmptyQuery(t *testing.T) {
	geocoder := newTestGeocoder(t, stubForward("0", "0"))

	_, err := geocoder.Forward("", "  ", "")
	assert.Error(t, err)
}

func TestMapFormLocateNotFoundKeepsCoordinates(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	form := NewMapForm(geocoder)
	lat, lon := 50.45, 30.52
	form.Latitude = &lat
	form.Longitude = &lon
	form.Zoom = zoomAddress

	form.Locate("Нереальне місто", "", "")

	// Маркер не рухається, користувач бачить повідомлення
	require.NotNil(t, form.Latitude)
	assert.Equal(t, 50.45, *form.Latitude)
	assert.Equal(t, 30.52, *form.Longitude)
	assert.Equal(t, zoomAddress, form.Zoom)
	assert.Equal(t, "Місце не знайдено", form.Message)
}

func TestMapFormLocateMovesMarker(t *testing.T) {
	geocoder := newTestGeocoder(t, stubForward("49.8397", "24.0297"))

	form := NewMapForm(geocoder)
	form.Locate("Львів", "", "")

	require.NotNil(t, form.Latitude)
	assert.InDelta(t, 49.8397, *form.Latitude, 0.0001)
	assert.Equal(t, zoomCity, form.Zoom)
	assert.Empty(t, form.Message)
}

func TestReverseCityFallbacks(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"display_name": "Ірпінь, Україна",
			"address": {"town": "Ірпінь", "suburb": "", "road": "вул. Соборна", "house_number": "12"}
		}`))
	})

	result, err := geocoder.Reverse(50.52, 30.25)

	require.NoError(t, err)
	assert.Equal(t, "Ірпінь", result.City)
	assert.Equal(t, "вул. Соборна, 12", result.Address)
}

func TestMapFormPickMatchesKnownDistrict(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"display_name": "Київ, Україна",
			"address": {"city": "Київ", "suburb": "солом'янський", "road": "вул. Гарматна"}
		}`))
	})

	form := NewMapForm(geocoder)
	form.KnownDistricts = []string{"Солом'янський", "Шевченківський"}

	result, err := form.Pick(50.44, 30.44)

	require.NoError(t, err)
	assert.Equal(t, "Солом'янський", result.District)
	require.NotNil(t, form.Latitude)
	assert.Equal(t, 50.44, *form.Latitude)
}

func TestMapFormPickUnknownDistrictFallsBack(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"display_name": "Київ, Україна",
			"address": {"city": "Київ", "suburb": "Невідомий"}
		}`))
	})

	form := NewMapForm(geocoder)
	form.KnownDistricts = []string{"Солом'янський"}

	result, err := form.Pick(50.44, 30.44)

	require.NoError(t, err)
	assert.Equal(t, "інший", result.District)
}
