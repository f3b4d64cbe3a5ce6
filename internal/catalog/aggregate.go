// Package catalog assembles nested product views from flat relational rows.
// Products, price tiers, and images are fetched in three separate queries
// and joined in memory, so a product with two prices and three images yields
// exactly two price entries and three image entries, never the fan-out
// duplication a single triple LEFT JOIN would produce.
package catalog

import (
	"catalogd/internal/assets"
	"catalogd/internal/models"
	"catalogd/internal/store"
)

// Aggregator builds product aggregates from the stores, annotating each
// image with its derivative paths.
type Aggregator struct {
	products *store.ProductStore
	images   *store.ImageStore
	assets   *assets.Store
}

// NewAggregator returns an Aggregator over the given stores.
func NewAggregator(products *store.ProductStore, images *store.ImageStore, as *assets.Store) *Aggregator {
	return &Aggregator{products: products, images: images, assets: as}
}

// List returns every product as a nested aggregate, in ascending id order.
func (a *Aggregator) List() ([]models.ProductView, error) {
	products, err := a.products.ListAll()
	if err != nil {
		return nil, err
	}
	prices, err := a.products.PricesByProduct()
	if err != nil {
		return nil, err
	}
	images, err := a.images.ByProduct()
	if err != nil {
		return nil, err
	}
	return assemble(products, prices, images, a.assets), nil
}

// Get returns the aggregate for a single product, or nil if it does not exist.
func (a *Aggregator) Get(id int64) (*models.ProductView, error) {
	product, err := a.products.FindByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	prices, err := a.products.PricesForProduct(id)
	if err != nil {
		return nil, err
	}
	images, err := a.images.ForProduct(id)
	if err != nil {
		return nil, err
	}
	views := assemble(
		[]models.Product{*product},
		map[int64][]models.Price{id: prices},
		map[int64][]models.Image{id: images},
		a.assets,
	)
	return &views[0], nil
}

// assemble joins pre-grouped rows into product views. Input order is
// preserved; prices and images are always non-nil slices so the JSON
// encoding stays an array even when empty.
func assemble(products []models.Product, prices map[int64][]models.Price, images map[int64][]models.Image, as *assets.Store) []models.ProductView {
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		view := models.ProductView{
			ID:          p.ID,
			Name:        p.Name,
			CategoryIDs: p.CategoryIDs,
			Prices:      []models.PriceView{},
			Images:      []models.ImageView{},
		}
		if view.CategoryIDs == nil {
			view.CategoryIDs = []int64{}
		}
		for _, pr := range prices[p.ID] {
			view.Prices = append(view.Prices, models.PriceView{
				Price:    pr.Price,
				Quantity: pr.Quantity,
			})
		}
		for _, img := range images[p.ID] {
			view.Images = append(view.Images, ImageView(img, as))
		}
		views = append(views, view)
	}
	return views
}

// ImageView annotates one image row with its three derivative paths,
// computed from the stored original path alone.
func ImageView(img models.Image, as *assets.Store) models.ImageView {
	return models.ImageView{
		ID:            img.ID,
		Image:         img.Path,
		Thumbnail:     as.DerivativePath(assets.ClassThumbnail, img.Path),
		Thumbnail400:  as.DerivativePath(assets.ClassThumbnail400, img.Path),
		Thumbnail1200: as.DerivativePath(assets.ClassThumbnail1200, img.Path),
	}
}
