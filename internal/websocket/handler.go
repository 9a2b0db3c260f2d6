package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/darynakulchii/StudentHousing-sub000/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS для WebSocket: API і так відкритий, тому приймаємо будь-який Origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler повертає http.Handler для точки входу /ws.
// Авторизація виконується через параметр запиту token, оскільки браузерний
// WebSocket API не дозволяє задавати заголовки.
func Handler(manager *Manager, jwtService *utils.JWTService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Відсутній токен", http.StatusUnauthorized)
			return
		}

		userID, err := jwtService.ExtractUserID(token)
		if err != nil {
			http.Error(w, "Невалідний або прострочений токен", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Помилка при оновленні з'єднання до WebSocket: %v", err)
			return
		}

		client := NewClient(userID, conn, manager)
		client.Start()
	})
}
