package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Schema statements are idempotent (IF NOT EXISTS) so Migrate can run at
// every startup. booking_reference carries the unique index that backstops
// concurrent reference allocation; destinations.name is unique under a
// case-insensitive collation.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('user','admin') NOT NULL DEFAULT 'user',
		is_suspended TINYINT(1) NOT NULL DEFAULT 0,
		reset_token_hash CHAR(64) NULL,
		reset_token_expiry DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS destinations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		price BIGINT NOT NULL,
		image VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_destinations_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		booking_reference VARCHAR(20) NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(150) NOT NULL,
		username VARCHAR(100) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		destination VARCHAR(100) NOT NULL,
		start_date VARCHAR(10) NOT NULL,
		end_date VARCHAR(10) NOT NULL,
		duration INT UNSIGNED NOT NULL,
		people INT UNSIGNED NOT NULL,
		price_per_person BIGINT NOT NULL DEFAULT 0,
		total_amount BIGINT NOT NULL DEFAULT 0,
		payment_screenshot LONGTEXT NULL,
		verification_status ENUM('pending','verified','rejected','suspended','refunded') NOT NULL DEFAULT 'pending',
		verified_by BIGINT UNSIGNED NULL,
		verified_at DATETIME NULL,
		rejection_reason TEXT NULL,
		suspension_reason TEXT NULL,
		refunded_by BIGINT UNSIGNED NULL,
		refunded_at DATETIME NULL,
		refund_reason TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_reference (booking_reference),
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// seedDestinations is the starter catalogue inserted when the destinations
// table is empty. Prices are per person per day.
var seedDestinations = []struct {
	Name        string
	Description string
	Price       int64
	Image       string
}{
	{"Multan", "City of Saints", 1500, "mulimg.jpg"},
	{"Islamabad", "Capital", 1800, "isbimg.jpg"},
	{"Karachi", "City by the sea", 2000, "karimg.jpg"},
	{"Lahore", "Heart of Pakistan", 1700, "lahimg.jpg"},
	{"Peshawar", "Historic city", 1600, "peimg.jpg"},
	{"Quetta", "Mountain city", 1800, "queimg.jpg"},
}

// Migrate creates missing tables and seeds the destination catalogue when
// the table is empty.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return seedIfEmpty(ctx, db)
}

func seedIfEmpty(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM destinations").Scan(&n); err != nil {
		return fmt.Errorf("count destinations: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, d := range seedDestinations {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO destinations (name, description, price, image) VALUES (?,?,?,?)",
			d.Name, d.Description, d.Price, d.Image); err != nil {
			return fmt.Errorf("seed destination %s: %w", d.Name, err)
		}
	}
	log.Printf("seeded %d destinations", len(seedDestinations))
	return nil
}
