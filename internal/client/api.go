package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

// FailureKind класифікує невдалий запит
type FailureKind string

const (
	FailAuth       FailureKind = "auth"       // 401/403 — перенаправлення на вхід
	FailValidation FailureKind = "validation" // інші 4xx
	FailServer     FailureKind = "server"     // 5xx
	FailNetwork    FailureKind = "network"    // помилка транспорту
)

// Failure описує невдалий запит
type Failure struct {
	Kind    FailureKind
	Status  int
	Message string
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return fmt.Sprintf("запит завершився помилкою (%s, статус %d)", f.Kind, f.Status)
}

// Result — типізований результат запиту: значення або класифікована невдача
type Result[T any] struct {
	Value   T
	Failure *Failure
}

// OK повідомляє, чи запит успішний
func (r Result[T]) OK() bool {
	return r.Failure == nil
}

// API — єдиний помічник для запитів до бекенду.
// Базова адреса — явне значення конфігурації, без жодних підстановок.
type API struct {
	BaseURL string
	Session *Session
	HTTP    *http.Client
}

// NewAPI створює клієнт API
func NewAPI(baseURL string, session *Session) *API {
	return &API{
		BaseURL: baseURL,
		Session: session,
		HTTP:    http.DefaultClient,
	}
}

// Headers будує заголовки запиту: авторизація за наявності сесії
// та content-type за потреби
func (a *API) Headers(withJSON bool) http.Header {
	headers := http.Header{}

	if withJSON {
		headers.Set("Content-Type", "application/json")
	}

	if a.Session != nil {
		if token := a.Session.Token(); token != "" {
			headers.Set("Authorization", "Bearer "+token)
		}
	}

	return headers
}

// do виконує запит та розбирає відповідь в out (якщо out не nil)
func (a *API) do(method, path string, body any, out any) *Failure {
	var reqBody *bytes.Reader
	withJSON := body != nil

	if withJSON {
		data, err := json.Marshal(body)
		if err != nil {
			return &Failure{Kind: FailNetwork, Message: err.Error()}
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.BaseURL+path, reqBody)
	if err != nil {
		return &Failure{Kind: FailNetwork, Message: err.Error()}
	}
	req.Header = a.Headers(withJSON)

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return &Failure{Kind: FailNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classify(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Failure{Kind: FailServer, Status: resp.StatusCode, Message: err.Error()}
		}
	}

	return nil
}

// classify перетворює HTTP-статус у класифіковану невдачу,
// діставши повідомлення з тіла {"error": ...}
func classify(resp *http.Response) *Failure {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	kind := FailValidation
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = FailAuth
	case resp.StatusCode >= 500:
		kind = FailServer
	}

	return &Failure{Kind: kind, Status: resp.StatusCode, Message: body.Error}
}

// get — типізований GET-запит
func get[T any](a *API, path string) Result[T] {
	var value T
	if fail := a.do(http.MethodGet, path, nil, &value); fail != nil {
		return Result[T]{Failure: fail}
	}
	return Result[T]{Value: value}
}

// send — типізований запит з JSON-тілом
func send[T any](a *API, method, path string, body any) Result[T] {
	var value T
	if fail := a.do(method, path, body, &value); fail != nil {
		return Result[T]{Failure: fail}
	}
	return Result[T]{Value: value}
}

// AuthResponse — відповідь входу або реєстрації
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Login виконує вхід та зберігає отриманий токен
func (a *API) Login(email, password string) Result[AuthResponse] {
	res := send[AuthResponse](a, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})

	if res.OK() && a.Session != nil {
		if err := a.Session.SaveToken(res.Value.Token); err != nil {
			return Result[AuthResponse]{Failure: &Failure{Kind: FailNetwork, Message: err.Error()}}
		}
	}

	return res
}

// Register реєструє нового користувача
func (a *API) Register(payload map[string]string) Result[AuthResponse] {
	return send[AuthResponse](a, http.MethodPost, "/api/auth/register", payload)
}

// PublicListings повертає сторінку публічних оголошень
func (a *API) PublicListings(query string) Result[models.ListingResponse] {
	return get[models.ListingResponse](a, "/api/listings"+query)
}

// ToggleListing перемикає статус оголошення та повертає новий статус
func (a *API) ToggleListing(listingID string) Result[struct {
	Status string `json:"status"`
}] {
	return send[struct {
		Status string `json:"status"`
	}](a, http.MethodPost, "/api/listings/"+listingID+"/toggle", nil)
}

// DeleteListing видаляє оголошення
func (a *API) DeleteListing(listingID string) *Failure {
	return a.do(http.MethodDelete, "/api/listings/"+listingID, nil, nil)
}

// FavoriteIDs повертає ID обраних оголошень для локального кешу
func (a *API) FavoriteIDs() Result[struct {
	ListingIDs []string `json:"listing_ids"`
}] {
	return get[struct {
		ListingIDs []string `json:"listing_ids"`
	}](a, "/api/favorites/ids")
}

// AddFavorite додає оголошення в обране
func (a *API) AddFavorite(listingID string) *Failure {
	return a.do(http.MethodPost, "/api/favorites", map[string]string{"listing_id": listingID}, nil)
}

// RemoveFavorite видаляє оголошення з обраного
func (a *API) RemoveFavorite(listingID string) *Failure {
	return a.do(http.MethodDelete, "/api/favorites/"+listingID, nil, nil)
}

// ConversationsResponse — відповідь списку розмов
type ConversationsResponse struct {
	Conversations []models.Conversation `json:"conversations"`
	Count         int                   `json:"count"`
}

// Conversations повертає розмови користувача
func (a *API) Conversations() Result[ConversationsResponse] {
	return get[ConversationsResponse](a, "/api/conversations")
}

// MessagesResponse — відповідь історії повідомлень
type MessagesResponse struct {
	Messages []models.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
}

// Messages повертає повідомлення розмови
func (a *API) Messages(conversationID string) Result[MessagesResponse] {
	return get[MessagesResponse](a, "/api/conversations/"+conversationID+"/messages")
}

// SendMessage надсилає повідомлення в розмову
func (a *API) SendMessage(conversationID, text string) Result[struct {
	Message models.Message `json:"message"`
}] {
	return send[struct {
		Message models.Message `json:"message"`
	}](a, http.MethodPost, "/api/conversations/"+conversationID+"/messages", map[string]string{"text": text})
}

// NotificationsResponse — відповідь списку сповіщень
type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// Notifications повертає сповіщення користувача
func (a *API) Notifications() Result[NotificationsResponse] {
	return get[NotificationsResponse](a, "/api/notifications")
}

// MarkNotificationsRead відмічає всі сповіщення як прочитані
func (a *API) MarkNotificationsRead() *Failure {
	return a.do(http.MethodPut, "/api/notifications/read", nil, nil)
}
