package geocoding

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
)

func TestZoomForQuery(t *testing.T) {
	assert.Equal(t, ZoomCity, ZoomForQuery("Київ", "", ""))
	assert.Equal(t, ZoomDistrict, ZoomForQuery("Київ", "Солом'янський", ""))
	assert.Equal(t, ZoomAddress, ZoomForQuery("Київ", "Солом'янський", "вул. Гарматна, 12"))
	assert.Equal(t, ZoomAddress, ZoomForQuery("", "", "вул. Гарматна, 12"))
	assert.Equal(t, ZoomCity, ZoomForQuery("", "", ""))
}

func newTestApp(t *testing.T, geocoderHandler http.HandlerFunc) *fiber.App {
	t.Helper()

	server := httptest.NewServer(geocoderHandler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		GeocoderConfig: config.GeocoderConfig{
			BaseURL:  server.URL,
			Language: "uk",
		},
	}

	app := fiber.New()
	NewGeocodingService(cfg).SetupRoutes(app)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestForwardReturnsCoordinatesAndZoom(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"lat": "50.4501", "lon": "30.5234", "display_name": "Київ, Україна"}]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/forward?city=Київ&district=Солом'янський", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "50.4501", body["lat"])
	assert.Equal(t, float64(ZoomDistrict), body["zoom"])
}

func TestForwardNotFound(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/forward?city=Нереальне", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["found"])
	assert.Equal(t, "Місце не знайдено", body["message"])
}

func TestForwardRequiresQuery(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/forward", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForwardGeocoderDown(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/forward?city=Київ", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestReverseFallbackFields(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "18", r.URL.Query().Get("zoom"))
		w.Write([]byte(`{
			"display_name": "Ірпінь, Україна",
			"address": {"town": "Ірпінь", "borough": "Центр", "road": "вул. Соборна", "house_number": "12"}
		}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/reverse?lat=50.52&lon=30.25", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Ірпінь", body["city"])
	assert.Equal(t, "Центр", body["district"])
	assert.Equal(t, "вул. Соборна, 12", body["address"])
}

func TestReverseRequiresCoordinates(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/geocode/reverse?lat=50.52", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
