package models

// Product is a catalog item. Category membership lives in the
// product_categories join table; CategoryIDs preserves the order the
// caller supplied them in.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CategoryIDs []int64 `json:"category_id"`
}

// Price is one price/quantity tier of a product. Multiple tiers per product
// represent bulk pricing, not a history.
type Price struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// DefaultPriceQuantity is applied when a price tier omits its quantity.
const DefaultPriceQuantity = 100

// ProductView is the aggregate read model: a product with its price tiers
// and images (each annotated with derivative paths) embedded.
type ProductView struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	CategoryIDs []int64     `json:"category_id"`
	Prices      []PriceView `json:"prices"`
	Images      []ImageView `json:"images"`
}

// PriceView is the price tier shape returned inside product aggregates.
type PriceView struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
