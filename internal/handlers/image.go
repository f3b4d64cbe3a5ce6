package handlers

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"catalogd/internal/assets"
	"catalogd/internal/catalog"
	"catalogd/internal/models"
)

// List returns all images with their derivative paths.
func (h *Image) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.images.List()
	if err != nil {
		slog.Error("image list failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views := make([]models.ImageListView, 0, len(items))
	for _, img := range items {
		views = append(views, h.listView(img))
	}
	writeJSON(w, http.StatusOK, views)
}

// Upload accepts a multipart image upload: saves the original, generates
// all three derivatives, and only then inserts the database row. Files
// written before a later failure are removed.
func (h *Image) Upload(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		writeError(w, "invalid Content-Type, expected multipart/form-data", http.StatusBadRequest)
		return
	}

	productID, data, format, img, ok := h.readUpload(w, r, true)
	if !ok {
		return
	}

	originalPath, err := h.assets.SaveOriginal(data, format)
	if err != nil {
		slog.Error("image save failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if _, err := h.assets.GenerateDerivatives(originalPath, img, format); err != nil {
		slog.Error("derivative generation failed", "error", err, "path", originalPath)
		h.assets.Remove(originalPath)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	created, err := h.images.Create(productID, originalPath)
	if err != nil {
		slog.Error("image db insert failed", "error", err, "path", originalPath)
		h.assets.RemoveWithDerivatives(originalPath)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	writeJSON(w, http.StatusCreated, h.listView(*created))
}

// Update replaces an image's file and/or product association. A new file
// goes through the full save-and-derive pipeline; the superseded files are
// removed after the row update succeeds.
func (h *Image) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, "image not found", http.StatusNotFound)
		return
	}
	if !isMultipart(r) {
		writeError(w, "invalid Content-Type, expected multipart/form-data", http.StatusBadRequest)
		return
	}

	existing, err := h.images.FindByID(id)
	if err != nil {
		slog.Error("image lookup failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		writeError(w, "image not found", http.StatusNotFound)
		return
	}

	productID, data, format, img, ok := h.readUpload(w, r, false)
	if !ok {
		return
	}
	if productID == 0 {
		productID = existing.ProductID
	}

	newPath := existing.Path
	if data != nil {
		newPath, err = h.assets.SaveOriginal(data, format)
		if err != nil {
			slog.Error("image save failed", "error", err)
			writeError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if _, err := h.assets.GenerateDerivatives(newPath, img, format); err != nil {
			slog.Error("derivative generation failed", "error", err, "path", newPath)
			h.assets.Remove(newPath)
			writeError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	found, err := h.images.Update(id, productID, newPath)
	if err != nil {
		slog.Error("image update failed", "error", err, "id", id)
		if newPath != existing.Path {
			h.assets.RemoveWithDerivatives(newPath)
		}
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		if newPath != existing.Path {
			h.assets.RemoveWithDerivatives(newPath)
		}
		writeError(w, "image not found", http.StatusNotFound)
		return
	}

	if newPath != existing.Path {
		h.assets.RemoveWithDerivatives(existing.Path)
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	writeJSON(w, http.StatusOK, h.listView(models.Image{ID: id, ProductID: productID, Path: newPath}))
}

// Delete removes an image row, then its files best-effort.
func (h *Image) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, "image not found", http.StatusNotFound)
		return
	}

	deleted, err := h.images.Delete(id)
	if err != nil {
		slog.Error("image delete failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if deleted == nil {
		writeError(w, "image not found", http.StatusNotFound)
		return
	}

	h.assets.RemoveWithDerivatives(deleted.Path)
	if h.cache != nil {
		h.cache.Invalidate(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}

// readUpload parses the multipart form and decodes the image file. When
// fileRequired is false a missing file or product_id is allowed (PUT keeps
// the existing value; productID 0 signals "unchanged"). Writes the error
// response itself and returns ok=false on failure.
func (h *Image) readUpload(w http.ResponseWriter, r *http.Request, fileRequired bool) (productID int64, data []byte, format string, decoded image.Image, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, "upload too large", http.StatusRequestEntityTooLarge)
		} else {
			writeError(w, "malformed multipart body", http.StatusBadRequest)
		}
		return
	}

	file, _, err := r.FormFile("image")
	switch {
	case err == http.ErrMissingFile && !fileRequired:
		// keep existing file
	case err != nil:
		writeError(w, "image file is required", http.StatusBadRequest)
		return
	default:
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			writeError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		decoded, format, err = assets.Decode(data)
		switch {
		case errors.Is(err, assets.ErrImageTooLarge):
			writeError(w, "image dimensions are too large", http.StatusBadRequest)
			return
		case errors.Is(err, assets.ErrNotImage):
			writeError(w, "file is not a decodable image", http.StatusBadRequest)
			return
		case err != nil:
			writeError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	pidStr := r.FormValue("product_id")
	if pidStr == "" {
		if fileRequired {
			writeError(w, "product_id is required", http.StatusBadRequest)
			return
		}
		return 0, data, format, decoded, true
	}

	productID, err = strconv.ParseInt(pidStr, 10, 64)
	if err != nil {
		writeError(w, "invalid product_id provided", http.StatusBadRequest)
		return
	}
	exists, err := h.products.Exists(productID)
	if err != nil {
		slog.Error("product existence check failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !exists {
		writeError(w, "invalid product_id provided", http.StatusBadRequest)
		return
	}

	return productID, data, format, decoded, true
}

// listView builds the listing shape for one image row.
func (h *Image) listView(img models.Image) models.ImageListView {
	v := catalog.ImageView(img, h.assets)
	return models.ImageListView{
		ID:            v.ID,
		ProductID:     img.ProductID,
		Image:         v.Image,
		Thumbnail:     v.Thumbnail,
		Thumbnail400:  v.Thumbnail400,
		Thumbnail1200: v.Thumbnail1200,
	}
}

// isMultipart reports whether the request carries multipart/form-data.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
