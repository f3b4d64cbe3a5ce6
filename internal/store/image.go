package store

import (
	"database/sql"
	"fmt"

	"catalogd/internal/models"
)

// ImageStore manages image rows. Only the original's path is stored;
// derivative paths are recomputed from it by the asset path convention.
type ImageStore struct {
	db *sql.DB
}

// NewImageStore returns a new ImageStore.
func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

const imageColumns = `id, product_id, image_path`

// scanImage scans an image row. A NULL product_id maps to zero.
func scanImage(scanner interface{ Scan(...any) error }) (*models.Image, error) {
	var img models.Image
	var productID sql.NullInt64
	if err := scanner.Scan(&img.ID, &productID, &img.Path); err != nil {
		return nil, err
	}
	img.ProductID = productID.Int64
	return &img, nil
}

// List returns all images in id order.
func (s *ImageStore) List() ([]models.Image, error) {
	rows, err := s.db.Query(`SELECT ` + imageColumns + ` FROM images ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	items := []models.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		items = append(items, *img)
	}
	return items, rows.Err()
}

// ByProduct returns all images grouped by product id, each group in id order.
func (s *ImageStore) ByProduct() (map[int64][]models.Image, error) {
	rows, err := s.db.Query(`
		SELECT ` + imageColumns + ` FROM images
		WHERE product_id IS NOT NULL
		ORDER BY product_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list images by product: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.Image)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		result[img.ProductID] = append(result[img.ProductID], *img)
	}
	return result, rows.Err()
}

// ForProduct returns one product's images in id order.
func (s *ImageStore) ForProduct(productID int64) ([]models.Image, error) {
	rows, err := s.db.Query(`
		SELECT `+imageColumns+` FROM images WHERE product_id = $1 ORDER BY id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	items := []models.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		items = append(items, *img)
	}
	return items, rows.Err()
}

// FindByID retrieves a single image. Returns nil if not found.
func (s *ImageStore) FindByID(id int64) (*models.Image, error) {
	row := s.db.QueryRow(`SELECT `+imageColumns+` FROM images WHERE id = $1`, id)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find image by id: %w", err)
	}
	return img, nil
}

// Create inserts an image row and returns it with the generated id.
// A zero productID stores NULL, same as Update.
func (s *ImageStore) Create(productID int64, path string) (*models.Image, error) {
	row := s.db.QueryRow(`
		INSERT INTO images (product_id, image_path) VALUES ($1, $2)
		RETURNING `+imageColumns, sql.NullInt64{Int64: productID, Valid: productID != 0}, path)
	img, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return img, nil
}

// Update replaces an image's product association and stored path. A zero
// productID stores NULL, mirroring how scanImage flattens NULL to zero, so
// unassigned rows round-trip without violating the FK.
// Returns false if no such image exists.
func (s *ImageStore) Update(id, productID int64, path string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE images SET product_id = $1, image_path = $2 WHERE id = $3
	`, sql.NullInt64{Int64: productID, Valid: productID != 0}, path, id)
	if err != nil {
		return false, fmt.Errorf("update image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update image rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes an image row and returns it so the caller can clean up
// the original and derivative files. Returns nil if not found.
func (s *ImageStore) Delete(id int64) (*models.Image, error) {
	row := s.db.QueryRow(`
		DELETE FROM images WHERE id = $1
		RETURNING `+imageColumns, id)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete image: %w", err)
	}
	return img, nil
}
