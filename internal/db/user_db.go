package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/darynakulchii/StudentHousing-sub000/internal/models"
)

// ErrUserNotFound повертається, коли користувача не існує
var ErrUserNotFound = pgx.ErrNoRows

// CreateUser створює нового користувача з email та хешем пароля.
// Повертає помилку, якщо email вже зайнятий.
func CreateUser(email, passwordHash, firstName, lastName string) (*models.User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	// Починаємо транзакцію
	tx, err := Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("помилка при початку транзакції: %w", err)
	}
	defer tx.Rollback(ctx)

	// Перевіряємо, чи існує користувач з таким email
	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("помилка при перевірці email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("користувач з email %s вже існує", email)
	}

	var user models.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, last_login_at, is_active)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, true)
		RETURNING id, email, first_name, last_name, created_at, updated_at, is_active
	`, email, passwordHash, firstName, lastName).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.CreatedAt, &user.UpdatedAt, &user.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("помилка при створенні користувача: %w", err)
	}

	if err = addToUserHistory(ctx, tx, user.ID, "registered"); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("помилка при фіксації транзакції: %w", err)
	}

	return &user, nil
}

// GetUserByEmail повертає користувача та хеш пароля за email
func GetUserByEmail(email string) (*models.User, string, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var user models.User
	var passwordHash string
	err := Pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, COALESCE(phone, ''), COALESCE(bio, ''),
		       COALESCE(avatar_url, ''), COALESCE(city, ''), password_hash,
		       created_at, updated_at, is_active
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone, &user.Bio,
		&user.AvatarURL, &user.City, &passwordHash,
		&user.CreatedAt, &user.UpdatedAt, &user.IsActive,
	)
	if err != nil {
		return nil, "", err
	}

	return &user, passwordHash, nil
}

// GetUserByID повертає користувача за ID
func GetUserByID(userID uuid.UUID) (*models.User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var user models.User
	err := Pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, COALESCE(phone, ''), COALESCE(bio, ''),
		       COALESCE(avatar_url, ''), COALESCE(city, ''),
		       created_at, updated_at, is_active
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone, &user.Bio,
		&user.AvatarURL, &user.City,
		&user.CreatedAt, &user.UpdatedAt, &user.IsActive,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetPublicUser повертає публічний профіль користувача
func GetPublicUser(userID uuid.UUID) (*models.PublicUser, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var user models.PublicUser
	err := Pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, COALESCE(avatar_url, ''), COALESCE(city, '')
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.FirstName, &user.LastName, &user.AvatarURL, &user.City)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile оновлює профіль користувача
func UpdateProfile(userID uuid.UUID, firstName, lastName, phone, bio, city string) error {
	ctx, cancel := GetContext()
	defer cancel()

	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("помилка при початку транзакції: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, bio = $4, city = $5, updated_at = NOW()
		WHERE id = $6
	`, firstName, lastName, phone, bio, city, userID)
	if err != nil {
		return fmt.Errorf("помилка при оновленні профілю: %w", err)
	}

	if err = addToUserHistory(ctx, tx, userID, "profile_updated"); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateAvatar зберігає URL аватара користувача
func UpdateAvatar(userID uuid.UUID, avatarURL string) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2
	`, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("помилка при оновленні аватара: %w", err)
	}

	return nil
}

// ChangeEmail змінює email користувача
func ChangeEmail(userID uuid.UUID, newEmail string) error {
	ctx, cancel := GetContext()
	defer cancel()

	var exists bool
	err := Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id != $2)
	`, newEmail, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("помилка при перевірці email: %w", err)
	}
	if exists {
		return fmt.Errorf("email %s вже зайнятий", newEmail)
	}

	_, err = Pool.Exec(ctx, `
		UPDATE users SET email = $1, updated_at = NOW() WHERE id = $2
	`, newEmail, userID)
	if err != nil {
		return fmt.Errorf("помилка при зміні email: %w", err)
	}

	return nil
}

// GetPasswordHash повертає хеш пароля користувача
func GetPasswordHash(userID uuid.UUID) (string, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var hash string
	err := Pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if err != nil {
		return "", err
	}

	return hash, nil
}

// ChangePassword зберігає новий хеш пароля користувача
func ChangePassword(userID uuid.UUID, newPasswordHash string) error {
	ctx, cancel := GetContext()
	defer cancel()

	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("помилка при початку транзакції: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, newPasswordHash, userID)
	if err != nil {
		return fmt.Errorf("помилка при зміні пароля: %w", err)
	}

	if err = addToUserHistory(ctx, tx, userID, "password_changed"); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateLastLogin оновлює час останнього входу
func UpdateLastLogin(userID uuid.UUID) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE users SET last_login_at = CURRENT_TIMESTAMP WHERE id = $1
	`, userID)
	return err
}

// addToUserHistory додає запис в історію дій користувача
func addToUserHistory(ctx context.Context, tx pgx.Tx, userID uuid.UUID, action string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_history (user_id, action)
		VALUES ($1, $2)
	`, userID, action)
	if err != nil {
		return fmt.Errorf("помилка при записі в історію: %w", err)
	}
	return nil
}
