package listing

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/darynakulchii/StudentHousing-sub000/internal/db"
	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

// insertPhotos вставляє фотографії оголошення в межах транзакції.
// Перша фотографія вважається основною.
func insertPhotos(ctx context.Context, tx pgx.Tx, listingID uuid.UUID, photos []RequestPhoto) error {
	for i, photo := range photos {
		isMain := i == 0

		_, err := tx.Exec(ctx, `
			INSERT INTO listing_photos (listing_id, url, public_id, file_name, is_main, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, listingID, photo.URL, photo.PublicID, photo.FileName, isMain, i)

		if err != nil {
			return err
		}
	}
	return nil
}

// loadPhotos повертає фотографії оголошення, впорядковані за позицією
func loadPhotos(ctx context.Context, listingID uuid.UUID) []models.ListingPhoto {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, listing_id, url, COALESCE(public_id, ''), COALESCE(file_name, ''), is_main, position, created_at
		FROM listing_photos
		WHERE listing_id = $1
		ORDER BY position ASC
	`, listingID)

	if err != nil {
		log.Printf("Помилка запиту фотографій: %v", err)
		return nil
	}
	defer rows.Close()

	var photos []models.ListingPhoto
	for rows.Next() {
		var photo models.ListingPhoto
		if err := rows.Scan(
			&photo.ID,
			&photo.ListingID,
			&photo.URL,
			&photo.PublicID,
			&photo.FileName,
			&photo.IsMain,
			&photo.Position,
			&photo.CreatedAt,
		); err != nil {
			log.Printf("Помилка сканування фотографії: %v", err)
			continue
		}

		photos = append(photos, photo)
	}

	return photos
}

// scanListings читає рядки оголошень та підвантажує їх фотографії
func scanListings(ctx context.Context, rows pgx.Rows) []models.Listing {
	var listings []models.Listing
	for rows.Next() {
		var listing models.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.UserID,
			&listing.Type,
			&listing.Title,
			&listing.Description,
			&listing.Price,
			&listing.City,
			&listing.District,
			&listing.Address,
			&listing.Latitude,
			&listing.Longitude,
			&listing.Characteristics,
			&listing.Status,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		); err != nil {
			log.Printf("Помилка сканування рядка: %v", err)
			continue
		}

		listing.Photos = loadPhotos(ctx, listing.ID)
		listings = append(listings, listing)
	}

	return listings
}
