package models

// Image is a stored product photo. Only the original's path is persisted;
// derivative paths are recomputed from it by convention.
type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Path      string `json:"image_path"`
}

// ImageView is an image annotated with its three derivative paths, as
// embedded in product aggregates.
type ImageView struct {
	ID            int64  `json:"id"`
	Image         string `json:"image"`
	Thumbnail     string `json:"thumbnail"`
	Thumbnail400  string `json:"thumbnail400"`
	Thumbnail1200 string `json:"thumbnail1200"`
}

// ImageListView is the shape returned by the image listing endpoint.
type ImageListView struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"product_id"`
	Image         string `json:"image"`
	Thumbnail     string `json:"thumbnail"`
	Thumbnail400  string `json:"thumbnail400"`
	Thumbnail1200 string `json:"thumbnail1200"`
}
