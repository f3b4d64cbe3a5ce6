// Handler tests exercise the full HTTP surface against a real PostgreSQL
// instance and a temporary asset directory. They skip when no database is
// reachable.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"catalogd/internal/assets"
	"catalogd/internal/catalog"
	"catalogd/internal/database"
	"catalogd/internal/handlers"
	"catalogd/internal/router"
	"catalogd/internal/store"
)

const testMaxUploadBytes = 20 << 20

type testEnv struct {
	router     http.Handler
	categories *store.CategoryStore
	products   *store.ProductStore
	images     *store.ImageStore
	assets     *assets.Store
	imagesRoot string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "catalogd")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "catalogd")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// newTestEnv wires real stores and a throwaway asset directory through the
// production router, with no cache. Tables are wiped before and after.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	wipe := func() {
		db.Exec(`DELETE FROM products`)
		db.Exec(`DELETE FROM images`)
		db.Exec(`DELETE FROM categories`)
	}
	wipe()
	t.Cleanup(func() {
		wipe()
		db.Close()
	})

	imagesRoot := t.TempDir()
	as := assets.NewStore(imagesRoot)
	categories := store.NewCategoryStore(db)
	products := store.NewProductStore(db)
	images := store.NewImageStore(db)
	agg := catalog.NewAggregator(products, images, as)

	r := router.New(
		handlers.NewCategory(categories, as, nil),
		handlers.NewProduct(products, categories, agg, as, nil),
		handlers.NewImage(images, products, as, nil, testMaxUploadBytes),
	)

	return &testEnv{
		router:     r,
		categories: categories,
		products:   products,
		images:     images,
		assets:     as,
		imagesRoot: imagesRoot,
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// do runs one request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// doJSON sends a JSON body.
func (e *testEnv) doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, strings.NewReader(body), "application/json")
}

// decodeBody unmarshals a response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// testPNG encodes a solid-color PNG of the given dimensions.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload builds a multipart body with an optional image file and
// optional product_id field. Returns the body and its content type.
func multipartUpload(t *testing.T, file []byte, filename, productID string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if file != nil {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if productID != "" {
		if err := mw.WriteField("product_id", productID); err != nil {
			t.Fatalf("write product_id field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// seedCategory creates a category over HTTP and returns its id.
func (e *testEnv) seedCategory(t *testing.T, name string) int64 {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/categories", `{"name":"`+name+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed category: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &created)
	return created.ID
}

// seedProduct creates a product over HTTP and returns its id.
func (e *testEnv) seedProduct(t *testing.T, name string, categoryID int64) int64 {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"name":        name,
		"category_id": []int64{categoryID},
		"prices":      []map[string]any{{"price": 9.99}},
	})
	if err != nil {
		t.Fatalf("marshal product body: %v", err)
	}
	rec := e.doJSON(t, http.MethodPost, "/products", string(body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed product: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created []struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &created)
	if len(created) != 1 {
		t.Fatalf("seed product: expected one-element array, got %s", rec.Body.String())
	}
	return created[0].ID
}
