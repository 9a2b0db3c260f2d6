package client

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Рівні наближення мапи за специфічністю запиту
const (
	zoomAddress  = 17
	zoomDistrict = 14
	zoomCity     = 11

	reverseZoom = 18
)

// Geocoder звертається до Nominatim напряму
type Geocoder struct {
	BaseURL  string
	Language string
	HTTP     *http.Client
}

// NewGeocoder створює геокодер з українською локалізацією
func NewGeocoder() *Geocoder {
	return &Geocoder{
		BaseURL:  "https://nominatim.openstreetmap.org",
		Language: "uk",
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

// GeocodeResult — результат прямого геокодування
type GeocodeResult struct {
	Found       bool
	Lat         float64
	Lon         float64
	DisplayName string
	Zoom        int
}

// AddressResult — результат зворотного геокодування
type AddressResult struct {
	City        string
	District    string
	Address     string
	DisplayName string
}

// Forward геокодує текстові поля адреси в координати.
// Рівень наближення відповідає найточнішому заповненому полю.
func (g *Geocoder) Forward(city, district, address string) (GeocodeResult, error) {
	city = strings.TrimSpace(city)
	district = strings.TrimSpace(district)
	address = strings.TrimSpace(address)

	var parts []string
	for _, part := range []string{address, district, city} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return GeocodeResult{}, fmt.Errorf("порожній запит геокодування")
	}

	query := strings.Join(parts, ", ")
	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1&accept-language=%s",
		g.BaseURL, url.QueryEscape(query), g.Language)

	resp, err := g.HTTP.Get(reqURL)
	if err != nil {
		return GeocodeResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeocodeResult{}, fmt.Errorf("геокодер повернув статус %d", resp.StatusCode)
	}

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return GeocodeResult{}, err
	}

	if len(results) == 0 {
		return GeocodeResult{Found: false}, nil
	}

	lat, _ := strconv.ParseFloat(results[0].Lat, 64)
	lon, _ := strconv.ParseFloat(results[0].Lon, 64)

	zoom := zoomCity
	switch {
	case address != "":
		zoom = zoomAddress
	case district != "":
		zoom = zoomDistrict
	}

	return GeocodeResult{
		Found:       true,
		Lat:         lat,
		Lon:         lon,
		DisplayName: results[0].DisplayName,
		Zoom:        zoom,
	}, nil
}

// Reverse геокодує координати назад у поля адреси
func (g *Geocoder) Reverse(lat, lon float64) (AddressResult, error) {
	reqURL := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=json&zoom=%d&accept-language=%s",
		g.BaseURL, lat, lon, reverseZoom, g.Language)

	resp, err := g.HTTP.Get(reqURL)
	if err != nil {
		return AddressResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return AddressResult{}, fmt.Errorf("геокодер повернув статус %d", resp.StatusCode)
	}

	var result struct {
		DisplayName string `json:"display_name"`
		Address     struct {
			City        string `json:"city"`
			Town        string `json:"town"`
			Village     string `json:"village"`
			Suburb      string `json:"suburb"`
			Borough     string `json:"borough"`
			Road        string `json:"road"`
			HouseNumber string `json:"house_number"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return AddressResult{}, err
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}

	district := result.Address.Suburb
	if district == "" {
		district = result.Address.Borough
	}

	address := result.Address.Road
	if address != "" && result.Address.HouseNumber != "" {
		address += ", " + result.Address.HouseNumber
	}

	return AddressResult{
		City:        city,
		District:    district,
		Address:     address,
		DisplayName: result.DisplayName,
	}, nil
}

// MapForm — стан мапи у формі оголошення: координати маркера,
// рівень наближення та повідомлення для користувача
type MapForm struct {
	Latitude  *float64
	Longitude *float64
	Zoom      int
	Message   string

	// KnownDistricts — варіанти списку районів; невідомий район
	// з геокодера підставляється як "інший"
	KnownDistricts []string

	geocoder *Geocoder
}

// NewMapForm створює стан мапи з геокодером
func NewMapForm(geocoder *Geocoder) *MapForm {
	return &MapForm{geocoder: geocoder, Zoom: zoomCity}
}

// Locate геокодує введені поля та пересуває маркер. Якщо місце не
// знайдено, координати залишаються без змін, а користувач бачить
// повідомлення біля форми.
func (m *MapForm) Locate(city, district, address string) {
	result, err := m.geocoder.Forward(city, district, address)
	if err != nil {
		log.Printf("Помилка геокодування: %v", err)
		m.Message = "Сервіс геокодування недоступний"
		return
	}

	if !result.Found {
		m.Message = "Місце не знайдено"
		return
	}

	m.Latitude = &result.Lat
	m.Longitude = &result.Lon
	m.Zoom = result.Zoom
	m.Message = ""
}

// Pick обробляє клік по мапі: маркер стає на вибрані координати,
// а поля адреси заповнюються зворотним геокодуванням
func (m *MapForm) Pick(lat, lon float64) (AddressResult, error) {
	m.Latitude = &lat
	m.Longitude = &lon

	result, err := m.geocoder.Reverse(lat, lon)
	if err != nil {
		log.Printf("Помилка зворотного геокодування: %v", err)
		return AddressResult{}, err
	}

	result.District = m.matchDistrict(result.District)
	return result, nil
}

// matchDistrict зіставляє район з відомими варіантами списку
func (m *MapForm) matchDistrict(district string) string {
	if district == "" || len(m.KnownDistricts) == 0 {
		return district
	}

	for _, known := range m.KnownDistricts {
		if strings.EqualFold(known, district) {
			return known
		}
	}

	return "інший"
}
