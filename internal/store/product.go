package store

import (
	"database/sql"
	"fmt"

	"catalogd/internal/models"
)

// ProductStore manages products, their category links, and their price tiers.
// Prices are owned rows: they are only ever written inside a product
// transaction, and updates replace the full set.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Create inserts a product together with its category links and price tiers
// in one transaction, so a failed price insert rolls the product back.
// Returns the generated product id.
func (s *ProductStore) Create(name string, categoryIDs []int64, prices []models.Price) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin product create: %w", err)
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRow(
		`INSERT INTO products (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	if err := insertLinks(tx, id, categoryIDs); err != nil {
		return 0, err
	}
	if err := insertPrices(tx, id, prices); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit product create: %w", err)
	}
	return id, nil
}

// Update renames a product and replaces its category links and price tiers
// wholesale. Returns false if the product does not exist.
func (s *ProductStore) Update(id int64, name string, categoryIDs []int64, prices []models.Price) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin product update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE products SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update product rows: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	// Replace-all semantics: drop the old sets, insert the new ones.
	if _, err := tx.Exec(`DELETE FROM product_categories WHERE product_id = $1`, id); err != nil {
		return false, fmt.Errorf("clear product categories: %w", err)
	}
	if err := insertLinks(tx, id, categoryIDs); err != nil {
		return false, err
	}
	if _, err := tx.Exec(`DELETE FROM prices WHERE product_id = $1`, id); err != nil {
		return false, fmt.Errorf("clear product prices: %w", err)
	}
	if err := insertPrices(tx, id, prices); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit product update: %w", err)
	}
	return true, nil
}

// insertLinks writes the category join rows, preserving input order.
func insertLinks(tx *sql.Tx, productID int64, categoryIDs []int64) error {
	stmt, err := tx.Prepare(`
		INSERT INTO product_categories (product_id, category_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare link insert: %w", err)
	}
	defer stmt.Close()

	for i, cid := range categoryIDs {
		if _, err := stmt.Exec(productID, cid, i); err != nil {
			return fmt.Errorf("insert link %d: %w", cid, err)
		}
	}
	return nil
}

// insertPrices writes the price tier rows for a product.
func insertPrices(tx *sql.Tx, productID int64, prices []models.Price) error {
	stmt, err := tx.Prepare(`
		INSERT INTO prices (product_id, price, quantity) VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("prepare price insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.Exec(productID, p.Price, p.Quantity); err != nil {
			return fmt.Errorf("insert price: %w", err)
		}
	}
	return nil
}

// Exists reports whether a product with the given id exists.
func (s *ProductStore) Exists(id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}

// FindByID retrieves a product with its ordered category ids.
// Returns nil if not found.
func (s *ProductStore) FindByID(id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRow(`SELECT id, name FROM products WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT category_id FROM product_categories
		WHERE product_id = $1 ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find product categories: %w", err)
	}
	defer rows.Close()

	p.CategoryIDs = []int64{}
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		p.CategoryIDs = append(p.CategoryIDs, cid)
	}
	return &p, rows.Err()
}

// ListAll returns every product in id order with its category ids attached.
func (s *ProductStore) ListAll() ([]models.Product, error) {
	rows, err := s.db.Query(`SELECT id, name FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	index := map[int64]int{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.CategoryIDs = []int64{}
		index[p.ID] = len(items)
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := s.db.Query(`
		SELECT product_id, category_id FROM product_categories
		ORDER BY product_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("list product categories: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var pid, cid int64
		if err := linkRows.Scan(&pid, &cid); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		if i, ok := index[pid]; ok {
			items[i].CategoryIDs = append(items[i].CategoryIDs, cid)
		}
	}
	return items, linkRows.Err()
}

// PricesByProduct returns all price tiers grouped by product id, each
// group in insertion (id) order.
func (s *ProductStore) PricesByProduct() (map[int64][]models.Price, error) {
	rows, err := s.db.Query(`
		SELECT id, product_id, price, quantity FROM prices ORDER BY product_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.Price)
	for rows.Next() {
		var p models.Price
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		result[p.ProductID] = append(result[p.ProductID], p)
	}
	return result, rows.Err()
}

// PricesForProduct returns one product's price tiers in insertion order.
func (s *ProductStore) PricesForProduct(id int64) ([]models.Price, error) {
	rows, err := s.db.Query(`
		SELECT id, product_id, price, quantity FROM prices
		WHERE product_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list product prices: %w", err)
	}
	defer rows.Close()

	prices := []models.Price{}
	for rows.Next() {
		var p models.Price
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// Delete removes a product; prices, images, and category links cascade.
// It returns the product's image paths so the caller can remove the files,
// and false if no such product exists.
func (s *ProductStore) Delete(id int64) ([]string, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin product delete: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT image_path FROM images WHERE product_id = $1`, id)
	if err != nil {
		return nil, false, fmt.Errorf("collect product image paths: %w", err)
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
		return nil, false, fmt.Errorf("collect product image paths: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("delete product rows: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit product delete: %w", err)
	}
	return paths, true, nil
}
