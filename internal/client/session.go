package client

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore — постійне сховище токена на стороні клієнта
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore зберігає токен у файлі в каталозі конфігурації користувача
type FileTokenStore struct {
	path string
}

// NewFileTokenStore створює сховище токена за замовчуванням
func NewFileTokenStore() (*FileTokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "studenthousing", "token")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	return &FileTokenStore{path: path}, nil
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore — сховище токена в пам'яті (для тестів)
type MemoryTokenStore struct {
	token string
}

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Load() (string, error)      { return s.token, nil }
func (s *MemoryTokenStore) Save(token string) error    { s.token = token; return nil }
func (s *MemoryTokenStore) Clear() error               { s.token = ""; return nil }

// Session — уявлення клієнта про те, який користувач авторизований,
// обчислюється з токена при кожному зверненні
type Session struct {
	store TokenStore
	now   func() time.Time
}

// NewSession створює сесію поверх сховища токена
func NewSession(store TokenStore) *Session {
	return &Session{store: store, now: time.Now}
}

// Resolve декодує payload токена без перевірки підпису (перевірка — справа
// сервера) та повертає ID користувача. Прострочений або пошкоджений токен
// видаляється зі сховища, а відсутність сесії повертається без помилки.
func (s *Session) Resolve() (string, bool) {
	token, err := s.store.Load()
	if err != nil {
		log.Printf("Помилка читання токена: %v", err)
		return "", false
	}

	if token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		log.Printf("Пошкоджений токен: %v", err)
		s.discard()
		return "", false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		log.Printf("Токен без терміну дії")
		s.discard()
		return "", false
	}

	if exp.Before(s.now()) {
		s.discard()
		return "", false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		log.Printf("Токен без user_id")
		s.discard()
		return "", false
	}

	return userID, true
}

// Token повертає сирий токен для заголовка авторизації
func (s *Session) Token() string {
	if _, ok := s.Resolve(); !ok {
		return ""
	}
	token, _ := s.store.Load()
	return token
}

// SaveToken зберігає новий токен після входу
func (s *Session) SaveToken(token string) error {
	return s.store.Save(token)
}

// discard видаляє невалідний токен зі сховища
func (s *Session) discard() {
	if err := s.store.Clear(); err != nil {
		log.Printf("Помилка видалення токена: %v", err)
	}
}
