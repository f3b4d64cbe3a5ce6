package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// categoryInput is the request body for category create and rename.
type categoryInput struct {
	Name string `json:"name"`
}

// categoryView is the category shape returned by all category endpoints.
type categoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// List returns all categories, excluding soft-deleted ones.
func (h *Category) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		slog.Error("category list failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views := make([]categoryView, 0, len(items))
	for _, c := range items {
		views = append(views, categoryView{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, views)
}

// Create inserts a new category.
func (h *Category) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if msg := validateCategoryName(in.Name); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	created, err := h.categories.Create(in.Name)
	if err != nil {
		slog.Error("category create failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, categoryView{ID: created.ID, Name: created.Name})
}

// Update renames a category.
func (h *Category) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if msg := validateCategoryName(in.Name); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	ok, err := h.categories.Rename(id, in.Name)
	if err != nil {
		slog.Error("category rename failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !ok {
		writeError(w, "category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, categoryView{ID: id, Name: in.Name})
}

// Delete hard-deletes a category, cascading to its products and their
// prices and images. Image files are removed best-effort afterwards.
func (h *Category) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	paths, found, err := h.categories.Delete(id)
	if err != nil {
		slog.Error("category delete failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		writeError(w, "category not found", http.StatusNotFound)
		return
	}

	for _, p := range paths {
		h.assets.RemoveWithDerivatives(p)
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SoftDelete marks a category deleted without touching its products.
func (h *Category) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	ok, err := h.categories.SoftDelete(id)
	if err != nil {
		slog.Error("category soft delete failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !ok {
		writeError(w, "category not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
