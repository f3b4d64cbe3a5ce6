// Package store provides the relational access layer for the catalog.
// All stores share one bounded *sql.DB pool injected at construction.
package store

import (
	"database/sql"
	"fmt"

	"catalogd/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories that have not been soft-deleted, in id order.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT id, name, is_deleted
		FROM categories
		WHERE is_deleted = FALSE
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsDeleted); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Create inserts a new category and returns it with the generated id.
func (s *CategoryStore) Create(name string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(`
		INSERT INTO categories (name) VALUES ($1)
		RETURNING id, name, is_deleted
	`, name).Scan(&c.ID, &c.Name, &c.IsDeleted)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// Rename updates a category's name. Returns false if no such category exists.
func (s *CategoryStore) Rename(id int64, name string) (bool, error) {
	res, err := s.db.Exec(`UPDATE categories SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return false, fmt.Errorf("rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rename category rows: %w", err)
	}
	return n > 0, nil
}

// SoftDelete marks a category deleted without removing it or its products.
// Returns false if no such category exists.
func (s *CategoryStore) SoftDelete(id int64) (bool, error) {
	res, err := s.db.Exec(`UPDATE categories SET is_deleted = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("soft delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete category rows: %w", err)
	}
	return n > 0, nil
}

// Delete hard-deletes a category and every product referencing it, cascading
// to those products' prices and images. It returns the image paths of the
// removed products so the caller can clean up files on disk.
func (s *CategoryStore) Delete(id int64) ([]string, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin category delete: %w", err)
	}
	defer tx.Rollback()

	// Collect image paths before the cascade removes the rows.
	rows, err := tx.Query(`
		SELECT i.image_path
		FROM images i
		JOIN product_categories pc ON pc.product_id = i.product_id
		WHERE pc.category_id = $1
	`, id)
	if err != nil {
		return nil, false, fmt.Errorf("collect category image paths: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, false, fmt.Errorf("scan image path: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("collect category image paths: %w", err)
	}

	// Hard-delete owned products; prices, images, and join rows go with
	// them via ON DELETE CASCADE.
	if _, err := tx.Exec(`
		DELETE FROM products
		WHERE id IN (SELECT product_id FROM product_categories WHERE category_id = $1)
	`, id); err != nil {
		return nil, false, fmt.Errorf("delete category products: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("delete category rows: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit category delete: %w", err)
	}
	return paths, true, nil
}

// AllExist reports whether every id in ids refers to an existing category.
// Soft-deleted categories still count as existing.
func (s *CategoryStore) AllExist(ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	// Build placeholder list for the IN clause; duplicates in the input
	// collapse via DISTINCT.
	placeholders := ""
	args := make([]any, len(ids))
	unique := map[int64]struct{}{}
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
		args[i] = id
		unique[id] = struct{}{}
	}

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT id) FROM categories WHERE id IN (`+placeholders+`)
	`, args...).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check categories exist: %w", err)
	}
	return count == len(unique), nil
}
