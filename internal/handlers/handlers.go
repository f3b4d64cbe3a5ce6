// Package handlers translates HTTP requests into store, aggregation, and
// asset-store calls. Handlers validate at the boundary, delegate the work,
// and map failures to HTTP statuses with JSON error bodies.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"catalogd/internal/assets"
	"catalogd/internal/cache"
	"catalogd/internal/catalog"
	"catalogd/internal/store"
)

// Category handles the /categories endpoints.
type Category struct {
	categories *store.CategoryStore
	assets     *assets.Store
	cache      *cache.CatalogCache
}

// NewCategory creates the category handler group. cache may be nil.
func NewCategory(categories *store.CategoryStore, as *assets.Store, cc *cache.CatalogCache) *Category {
	return &Category{categories: categories, assets: as, cache: cc}
}

// Product handles the /products endpoints.
type Product struct {
	products   *store.ProductStore
	categories *store.CategoryStore
	aggregator *catalog.Aggregator
	assets     *assets.Store
	cache      *cache.CatalogCache
}

// NewProduct creates the product handler group. cache may be nil.
func NewProduct(products *store.ProductStore, categories *store.CategoryStore, agg *catalog.Aggregator, as *assets.Store, cc *cache.CatalogCache) *Product {
	return &Product{products: products, categories: categories, aggregator: agg, assets: as, cache: cc}
}

// Image handles the /images endpoints.
type Image struct {
	images         *store.ImageStore
	products       *store.ProductStore
	assets         *assets.Store
	cache          *cache.CatalogCache
	maxUploadBytes int64
}

// NewImage creates the image handler group. cache may be nil.
func NewImage(images *store.ImageStore, products *store.ProductStore, as *assets.Store, cc *cache.CatalogCache, maxUploadBytes int64) *Image {
	return &Image{images: images, products: products, assets: as, cache: cc, maxUploadBytes: maxUploadBytes}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// idParam parses the {id} chi URL parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
