package client

import (
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

// RegistrationForm — стан форми реєстрації
type RegistrationForm struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string

	Errors map[string]string
}

// Validate перевіряє поля форми локально та заповнює Errors
func (f *RegistrationForm) Validate() bool {
	f.Errors = make(map[string]string)

	if strings.TrimSpace(f.FirstName) == "" {
		f.Errors["first_name"] = "Вкажіть ім'я"
	}
	if strings.TrimSpace(f.LastName) == "" {
		f.Errors["last_name"] = "Вкажіть прізвище"
	}

	email := strings.TrimSpace(strings.ToLower(f.Email))
	if email == "" {
		f.Errors["email"] = "Вкажіть email"
	} else if _, err := mail.ParseAddress(email); err != nil {
		f.Errors["email"] = "Невірний формат email"
	}

	if len(f.Password) < 6 {
		f.Errors["password"] = "Пароль має містити щонайменше 6 символів"
	}
	if f.Password != f.ConfirmPassword {
		f.Errors["confirm_password"] = "Паролі не співпадають"
	}

	return len(f.Errors) == 0
}

// Submit надсилає форму реєстрації. Якщо локальна перевірка не пройшла
// (зокрема при розбіжності паролів), запит не виконується взагалі.
func (f *RegistrationForm) Submit(api *API) (Result[AuthResponse], bool) {
	if !f.Validate() {
		return Result[AuthResponse]{}, false
	}

	res := api.Register(map[string]string{
		"first_name":       strings.TrimSpace(f.FirstName),
		"last_name":        strings.TrimSpace(f.LastName),
		"email":            strings.TrimSpace(strings.ToLower(f.Email)),
		"password":         f.Password,
		"confirm_password": f.ConfirmPassword,
	})

	if !res.OK() && res.Failure.Kind == FailValidation {
		f.Errors["form"] = res.Failure.Message
	}

	return res, true
}

// PhotoSelection — вибрані фотографії форми оголошення
type PhotoSelection struct {
	Photos []models.ListingPhoto
}

// Add додає фотографію, якщо не перевищено ліміт
func (p *PhotoSelection) Add(photo models.ListingPhoto) error {
	if len(p.Photos) >= models.MaxListingPhotos {
		return fmt.Errorf("можна додати не більше %d фотографій", models.MaxListingPhotos)
	}
	p.Photos = append(p.Photos, photo)
	return nil
}

// AddAll додає фотографії до досягнення ліміту та повертає
// кількість доданих
func (p *PhotoSelection) AddAll(photos []models.ListingPhoto) int {
	added := 0
	for _, photo := range photos {
		if err := p.Add(photo); err != nil {
			break
		}
		added++
	}
	return added
}

// Remove видаляє фотографію за позицією
func (p *PhotoSelection) Remove(index int) {
	if index < 0 || index >= len(p.Photos) {
		return
	}
	p.Photos = append(p.Photos[:index], p.Photos[index+1:]...)
}

// StatusToggle перемикає статус оголошення. Відображення оновлюється
// лише після підтвердження сервером, без оптимістичних змін.
type StatusToggle struct {
	ListingID string
	Status    string
	Pending   bool
}

// Toggle надсилає запит на зміну статусу та застосовує відповідь сервера.
// Повторні натискання під час очікування ігноруються.
func (t *StatusToggle) Toggle(api *API) *Failure {
	if t.Pending {
		return nil
	}

	t.Pending = true
	defer func() { t.Pending = false }()

	res := api.ToggleListing(t.ListingID)
	if !res.OK() {
		log.Printf("Помилка зміни статусу оголошення %s: %v", t.ListingID, res.Failure)
		return res.Failure
	}

	t.Status = res.Value.Status
	return nil
}

// FavoriteSet — локальний кеш обраних оголошень
type FavoriteSet struct {
	ids map[string]bool
}

// NewFavoriteSet створює кеш з отриманих ID
func NewFavoriteSet(ids []string) *FavoriteSet {
	set := &FavoriteSet{ids: make(map[string]bool)}
	for _, id := range ids {
		set.ids[id] = true
	}
	return set
}

// Contains повідомляє, чи оголошення в обраному
func (s *FavoriteSet) Contains(listingID string) bool {
	return s.ids[listingID]
}

// Toggle оптимістично перемикає обране: кеш змінюється одразу,
// а при помилці запиту зміна відкочується
func (s *FavoriteSet) Toggle(api *API, listingID string) *Failure {
	wasFavorite := s.ids[listingID]

	var fail *Failure
	if wasFavorite {
		delete(s.ids, listingID)
		fail = api.RemoveFavorite(listingID)
	} else {
		s.ids[listingID] = true
		fail = api.AddFavorite(listingID)
	}

	if fail != nil {
		// Відкочуємо оптимістичну зміну
		if wasFavorite {
			s.ids[listingID] = true
		} else {
			delete(s.ids, listingID)
		}
		log.Printf("Помилка зміни обраного для %s: %v", listingID, fail)
	}

	return fail
}

// ListingForm — стан форми створення або редагування оголошення
type ListingForm struct {
	Type            string
	Title           string
	Description     string
	Price           int
	City            string
	District        string
	Address         string
	Latitude        *float64
	Longitude       *float64
	Characteristics []string
	Photos          PhotoSelection

	Errors map[string]string
}

// Validate перевіряє поля форми оголошення локально
func (f *ListingForm) Validate() bool {
	f.Errors = make(map[string]string)

	if !models.ValidListingTypes[f.Type] {
		f.Errors["type"] = "Невірний тип оголошення"
	}
	if strings.TrimSpace(f.Title) == "" {
		f.Errors["title"] = "Вкажіть заголовок"
	}
	if strings.TrimSpace(f.City) == "" {
		f.Errors["city"] = "Вкажіть місто"
	}
	if f.Price < 0 {
		f.Errors["price"] = "Ціна не може бути від'ємною"
	}
	if len(f.Photos.Photos) > models.MaxListingPhotos {
		f.Errors["photos"] = fmt.Sprintf("Можна додати не більше %d фотографій", models.MaxListingPhotos)
	}

	return len(f.Errors) == 0
}
