package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   FailureKind
	}{
		{"неавторизований", http.StatusUnauthorized, FailAuth},
		{"заборонено", http.StatusForbidden, FailAuth},
		{"невірний запит", http.StatusBadRequest, FailValidation},
		{"конфлікт", http.StatusConflict, FailValidation},
		{"не знайдено", http.StatusNotFound, FailValidation},
		{"помилка сервера", http.StatusInternalServerError, FailServer},
		{"недоступний шлюз", http.StatusBadGateway, FailServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error": "повідомлення"}`))
			})

			fail := api.do(http.MethodGet, "/api/test", nil, nil)

			require.NotNil(t, fail)
			assert.Equal(t, tt.kind, fail.Kind)
			assert.Equal(t, tt.status, fail.Status)
			assert.Equal(t, "повідомлення", fail.Message)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	api := NewAPI("http://127.0.0.1:1", nil)
	api.HTTP = &http.Client{Timeout: 200 * time.Millisecond}

	fail := api.do(http.MethodGet, "/api/test", nil, nil)

	require.NotNil(t, fail)
	assert.Equal(t, FailNetwork, fail.Kind)
}

func TestHeadersWithSession(t *testing.T) {
	token := signToken(t, "user-123", time.Now().Add(time.Hour))
	session := NewSession(NewMemoryTokenStore(token))
	api := NewAPI("http://localhost", session)

	headers := api.Headers(true)

	assert.Equal(t, "Bearer "+token, headers.Get("Authorization"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
}

func TestHeadersWithoutSession(t *testing.T) {
	api := NewAPI("http://localhost", nil)

	headers := api.Headers(false)

	assert.Empty(t, headers.Get("Authorization"))
	assert.Empty(t, headers.Get("Content-Type"))
}

func TestHeadersExpiredSessionOmitsBearer(t *testing.T) {
	token := signToken(t, "user-123", time.Now().Add(-time.Hour))
	session := NewSession(NewMemoryTokenStore(token))
	api := NewAPI("http://localhost", session)

	headers := api.Headers(true)

	assert.Empty(t, headers.Get("Authorization"))
}

func TestLoginSavesToken(t *testing.T) {
	token := signToken(t, "user-123", time.Now().Add(time.Hour))

	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Write([]byte(`{"token": "` + token + `", "user": {"first_name": "Дарина"}}`))
	})

	store := NewMemoryTokenStore("")
	api.Session = NewSession(store)

	res := api.Login("daryna@example.com", "секрет123")

	require.True(t, res.OK())
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, saved)

	userID, ok := api.Session.Resolve()
	assert.True(t, ok)
	assert.Equal(t, "user-123", userID)
}
