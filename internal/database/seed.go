package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a couple of
// categories and one product with two price tiers. No-op when categories
// already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var toolsID int64
	if err := tx.QueryRow(
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", "Tools",
	).Scan(&toolsID); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO categories (name) VALUES ($1)", "Hardware"); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	var productID int64
	if err := tx.QueryRow(
		"INSERT INTO products (name) VALUES ($1) RETURNING id", "Hammer",
	).Scan(&productID); err != nil {
		return fmt.Errorf("seed insert product: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO product_categories (product_id, category_id, position) VALUES ($1, $2, 0)",
		productID, toolsID,
	); err != nil {
		return fmt.Errorf("seed link product: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO prices (product_id, price, quantity) VALUES ($1, 9.99, 100), ($1, 8.49, 500)",
		productID,
	); err != nil {
		return fmt.Errorf("seed insert prices: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample catalog data")
	return nil
}
