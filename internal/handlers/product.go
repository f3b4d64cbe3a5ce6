package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"catalogd/internal/models"
)

// List returns all products as nested aggregates. The serialized listing
// is cached in Valkey between writes when a cache is configured.
func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if body, ok := h.cache.GetProducts(r.Context()); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	views, err := h.aggregator.List()
	if err != nil {
		slog.Error("product list failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(views)
	if err != nil {
		slog.Error("product list encode failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if h.cache != nil {
		h.cache.SetProducts(r.Context(), body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Create validates and inserts a product with its price tiers, then
// responds with the one-element aggregate array for the new product.
func (h *Product) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	id, err := h.products.Create(in.Name, in.CategoryIDs, pricesFromInput(in.Prices))
	if err != nil {
		slog.Error("product create failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	h.respondAggregate(w, r, id, http.StatusCreated)
}

// Update validates and applies a full product replacement: rename plus
// replace-all category links and price tiers.
func (h *Product) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, "product not found", http.StatusNotFound)
		return
	}

	in, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	found, err := h.products.Update(id, in.Name, in.CategoryIDs, pricesFromInput(in.Prices))
	if err != nil {
		slog.Error("product update failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		writeError(w, "product not found", http.StatusNotFound)
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	h.respondAggregate(w, r, id, http.StatusOK)
}

// Delete removes a product; prices and images cascade, and the image
// files are removed from disk best-effort.
func (h *Product) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, "product not found", http.StatusNotFound)
		return
	}

	paths, found, err := h.products.Delete(id)
	if err != nil {
		slog.Error("product delete failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		writeError(w, "product not found", http.StatusNotFound)
		return
	}

	for _, p := range paths {
		h.assets.RemoveWithDerivatives(p)
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeAndValidate reads a product body and runs all write-time checks,
// including category existence. Writes the error response itself and
// returns ok=false when the request is invalid.
func (h *Product) decodeAndValidate(w http.ResponseWriter, r *http.Request) (*productInput, bool) {
	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return nil, false
	}
	if msg := validateProduct(&in); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return nil, false
	}

	exist, err := h.categories.AllExist(in.CategoryIDs)
	if err != nil {
		slog.Error("category existence check failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if !exist {
		writeError(w, "invalid category_id provided", http.StatusBadRequest)
		return nil, false
	}
	return &in, true
}

// respondAggregate writes the single-product aggregate as a one-element
// array, matching the listing's element shape.
func (h *Product) respondAggregate(w http.ResponseWriter, r *http.Request, id int64, status int) {
	view, err := h.aggregator.Get(id)
	if err != nil || view == nil {
		slog.Error("product aggregate read failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, []models.ProductView{*view})
}

// pricesFromInput converts request price tiers to model rows, applying
// the default quantity where omitted.
func pricesFromInput(in []priceInput) []models.Price {
	prices := make([]models.Price, 0, len(in))
	for _, p := range in {
		quantity := models.DefaultPriceQuantity
		if p.Quantity != nil {
			quantity = *p.Quantity
		}
		prices = append(prices, models.Price{Price: *p.Price, Quantity: quantity})
	}
	return prices
}
