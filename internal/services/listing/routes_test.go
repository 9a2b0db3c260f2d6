package listing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darynakulchii/StudentHousing-sub000/internal/config"
)

func newRoutedApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(recover.New())

	// Той самий порядок реєстрації, що і в main
	svc := NewListingService(&config.Config{JWTSecret: "test-secret"})
	svc.SetupRoutes(app)
	svc.SetupPublicRoutes(app)
	return app
}

func TestPublicListingsWithoutToken(t *testing.T) {
	app := newRoutedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/listings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	// Публічний пошук не вимагає авторизації
	assert.NotEqual(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPublicListingsWithFiltersWithoutToken(t *testing.T) {
	app := newRoutedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/listings?type=offer_housing&city=Київ", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.NotEqual(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedListingRoutesRequireToken(t *testing.T) {
	app := newRoutedApp(t)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/listings/my"},
		{http.MethodPost, "/api/listings/create"},
		{http.MethodPost, "/api/listings/00000000-0000-0000-0000-000000000001/toggle"},
		{http.MethodDelete, "/api/listings/00000000-0000-0000-0000-000000000001"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", r.method, r.path)
	}
}
