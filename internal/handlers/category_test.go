package handlers_test

import (
	"net/http"
	"testing"

	"catalogd/internal/handlers"
)

func TestCategoryCreateAndListHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/categories", `{"name":"Tools"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created handlers.CategoryView
	decodeBody(t, rec, &created)
	if created.ID == 0 || created.Name != "Tools" {
		t.Errorf("created: got %+v", created)
	}

	rec = env.do(t, http.MethodGet, "/categories", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var listed []handlers.CategoryView
	decodeBody(t, rec, &listed)
	if len(listed) != 1 || listed[0].Name != "Tools" {
		t.Errorf("listed: got %+v", listed)
	}
}

func TestCategoryListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/categories", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("empty list body: got %q, want JSON array", body)
	}
}

func TestCategoryCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{`{}`, `{"name":""}`, `not json`} {
		rec := env.doJSON(t, http.MethodPost, "/categories", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status %d, want 400", body, rec.Code)
		}
	}
}

func TestCategoryRenameHTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedCategory(t, "Tols")

	rec := env.doJSON(t, http.MethodPut, "/categories/"+itoa(id), `{"name":"Tools"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("rename: status %d, body %s", rec.Code, rec.Body.String())
	}
	var renamed handlers.CategoryView
	decodeBody(t, rec, &renamed)
	if renamed.Name != "Tools" {
		t.Errorf("renamed: got %+v", renamed)
	}

	rec = env.doJSON(t, http.MethodPut, "/categories/999999", `{"name":"Ghost"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("rename missing: status %d, want 404", rec.Code)
	}

	// Non-numeric category ids are a client error, not a missing resource.
	rec = env.doJSON(t, http.MethodPut, "/categories/abc", `{"name":"X"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("rename bad id: status %d, want 400", rec.Code)
	}
}

func TestCategorySoftDeleteHTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedCategory(t, "Tools")
	env.seedProduct(t, "Hammer", id)

	rec := env.do(t, http.MethodDelete, "/categories_soft/"+itoa(id), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("soft delete: status %d, body %s", rec.Code, rec.Body.String())
	}

	// Hidden from the listing, but its product survives.
	rec = env.do(t, http.MethodGet, "/categories", nil, "")
	var listed []handlers.CategoryView
	decodeBody(t, rec, &listed)
	if len(listed) != 0 {
		t.Errorf("listing after soft delete: got %+v", listed)
	}

	rec = env.do(t, http.MethodGet, "/products", nil, "")
	var products []map[string]any
	decodeBody(t, rec, &products)
	if len(products) != 1 {
		t.Errorf("products after soft delete: got %d, want 1", len(products))
	}

	rec = env.do(t, http.MethodDelete, "/categories_soft/999999", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("soft delete missing: status %d, want 404", rec.Code)
	}
}

func TestCategoryHardDeleteHTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedCategory(t, "Tools")
	env.seedProduct(t, "Hammer", id)

	rec := env.do(t, http.MethodDelete, "/categories/"+itoa(id), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", rec.Code, rec.Body.String())
	}
	var status map[string]string
	decodeBody(t, rec, &status)
	if status["status"] != "deleted" {
		t.Errorf("delete body: got %v", status)
	}

	// Cascade removes the product too.
	rec = env.do(t, http.MethodGet, "/products", nil, "")
	var products []map[string]any
	decodeBody(t, rec, &products)
	if len(products) != 0 {
		t.Errorf("products after hard delete: got %d, want 0", len(products))
	}

	rec = env.do(t, http.MethodDelete, "/categories/999999", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing: status %d, want 404", rec.Code)
	}
}
