// Package models defines the catalog domain types shared by the store,
// aggregation, and handler layers.
package models

// Category groups products. Soft-deleted categories stay in the table but
// are excluded from listings.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"-"`
}
