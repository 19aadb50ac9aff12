package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"product-catalog/internal/apperr"
	"product-catalog/internal/domain"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Map-backed mock repository for handler tests
type mockProductRepository struct {
	products    map[uuid.UUID]*domain.Product
	nextImageID int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) clone(p *domain.Product) *domain.Product {
	cp := *p
	cp.Tags = append([]string(nil), p.Tags...)
	cp.Sizes = append([]string(nil), p.Sizes...)
	cp.Images = append([]domain.ProductImage(nil), p.Images...)
	return &cp
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for _, p := range m.products {
		if p.Slug == product.Slug {
			return apperr.Conflict("Key (slug)=("+product.Slug+") already exists.", nil)
		}
	}
	for i := range product.Images {
		m.nextImageID++
		product.Images[i].ID = m.nextImageID
	}
	m.products[product.ID] = m.clone(product)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("id", id.String())
	}
	return m.clone(p), nil
}

func (m *mockProductRepository) FindByTitleOrSlug(ctx context.Context, term string) (*domain.Product, error) {
	lower := strings.ToLower(term)
	for _, p := range m.products {
		if strings.ToLower(p.Slug) == lower || strings.ToLower(p.Title) == lower {
			return m.clone(p), nil
		}
	}
	return nil, apperr.NotFound("slug", term)
}

func (m *mockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, int, error) {
	all := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		all = append(all, m.clone(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	total := len(all)
	if offset >= total {
		return []*domain.Product{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product, replaceImages bool) error {
	stored, ok := m.products[product.ID]
	if !ok {
		return apperr.NotFound("id", product.ID.String())
	}
	next := m.clone(product)
	if replaceImages {
		for i := range next.Images {
			m.nextImageID++
			next.Images[i].ID = m.nextImageID
		}
	} else {
		next.Images = stored.Images
	}
	m.products[product.ID] = next
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return apperr.NotFound("id", id.String())
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) DeleteAll(ctx context.Context) error {
	m.products = make(map[uuid.UUID]*domain.Product)
	return nil
}

func newTestRouter() (*chi.Mux, *mockProductRepository) {
	repo := newMockProductRepository()
	catalog := service.NewCatalogService(repo, zap.NewNop())
	handler := NewProductHandler(catalog, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, repo
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateProductReturns201WithFlattenedImages(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Title:  "Teslo T-Shirt",
		Price:  29.99,
		Stock:  5,
		Gender: "men",
		Images: []string{"front.jpg", "back.jpg"},
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Slug != "teslo_t_shirt" {
		t.Errorf("expected derived slug, got %q", resp.Slug)
	}
	if len(resp.Images) != 2 || resp.Images[0] != "front.jpg" || resp.Images[1] != "back.jpg" {
		t.Errorf("expected flattened image URLs in order, got %v", resp.Images)
	}
}

func TestGetProductByTermAndByID(t *testing.T) {
	router, _ := newTestRouter()

	created := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Title: "Teslo T-Shirt",
		Price: 29.99,
	})
	var product ProductResponse
	if err := json.Unmarshal(created.Body.Bytes(), &product); err != nil {
		t.Fatalf("invalid create response: %v", err)
	}

	bySlug := doJSON(t, router, http.MethodGet, "/api/products/TESLO_T_SHIRT", nil)
	if bySlug.Code != http.StatusOK {
		t.Fatalf("expected 200 for slug lookup, got %d", bySlug.Code)
	}

	byID := doJSON(t, router, http.MethodGet, "/api/products/"+product.ID, nil)
	if byID.Code != http.StatusOK {
		t.Fatalf("expected 200 for id lookup, got %d", byID.Code)
	}

	var a, b ProductResponse
	json.Unmarshal(bySlug.Body.Bytes(), &a)
	json.Unmarshal(byID.Body.Bytes(), &b)
	if a.ID != b.ID {
		t.Error("slug and id lookups must return the same product")
	}
}

func TestGetUnknownProductReturns404(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/products/no_such_product", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no_such_product") {
		t.Errorf("404 should name the failed term, got %s", w.Body.String())
	}
}

func TestCreateDuplicateSlugReturns409(t *testing.T) {
	router, _ := newTestRouter()

	first := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{Title: "Teslo Hoodie", Price: 50})
	if first.Code != http.StatusCreated {
		t.Fatalf("first create failed: %d", first.Code)
	}

	second := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{Title: "Teslo Hoodie", Price: 55})
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate slug, got %d: %s", second.Code, second.Body.String())
	}
}

func TestListEnvelope(t *testing.T) {
	router, _ := newTestRouter()

	titles := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	for _, title := range titles {
		w := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{Title: "Teslo " + title, Price: 1})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d", w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/products?limit=2&page=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var list ProductListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid list response: %v", err)
	}

	if list.CurrentPage != 2 || list.MaxPages != 3 || list.Limit != 2 || list.Total != 5 {
		t.Errorf("unexpected envelope: %+v", list)
	}
	if list.Next == nil || *list.Next != "/api/products?page=3&limit=2" {
		t.Errorf("unexpected next: %v", list.Next)
	}
	if list.Prev == nil || *list.Prev != "/api/products?page=1&limit=2" {
		t.Errorf("unexpected prev: %v", list.Prev)
	}
	if len(list.Products) != 2 {
		t.Errorf("expected 2 products on the page, got %d", len(list.Products))
	}
}

func TestPatchReplacesImagesAndMergesFields(t *testing.T) {
	router, _ := newTestRouter()

	created := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Title:  "Teslo Jacket",
		Price:  120,
		Images: []string{"old-1.jpg", "old-2.jpg"},
	})
	var product ProductResponse
	json.Unmarshal(created.Body.Bytes(), &product)

	price := 99.5
	images := []string{"new-1.jpg"}
	w := doJSON(t, router, http.MethodPatch, "/api/products/"+product.ID, UpdateProductRequest{
		Price:  &price,
		Images: &images,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated ProductResponse
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Price != 99.5 {
		t.Errorf("expected merged price, got %v", updated.Price)
	}
	if len(updated.Images) != 1 || updated.Images[0] != "new-1.jpg" {
		t.Errorf("expected replaced image set, got %v", updated.Images)
	}
	if updated.Title != "Teslo Jacket" {
		t.Errorf("omitted fields must stay untouched, got %q", updated.Title)
	}
}

func TestPatchWithoutImagesKeepsImageSet(t *testing.T) {
	router, _ := newTestRouter()

	created := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{
		Title:  "Teslo Cap",
		Price:  15,
		Images: []string{"cap-1.jpg", "cap-2.jpg"},
	})
	var product ProductResponse
	json.Unmarshal(created.Body.Bytes(), &product)

	stock := 9
	w := doJSON(t, router, http.MethodPatch, "/api/products/"+product.ID, UpdateProductRequest{Stock: &stock})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var updated ProductResponse
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Images) != 2 {
		t.Errorf("image set must survive a fields-only patch, got %v", updated.Images)
	}
}

func TestPatchInvalidIDReturns400(t *testing.T) {
	router, _ := newTestRouter()

	price := 10.0
	w := doJSON(t, router, http.MethodPatch, "/api/products/not-a-uuid", UpdateProductRequest{Price: &price})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	router, _ := newTestRouter()

	w := doJSON(t, router, http.MethodDelete, "/api/products/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting unknown id, got %d", w.Code)
	}

	created := doJSON(t, router, http.MethodPost, "/api/products", CreateProductRequest{Title: "Teslo Mug", Price: 8})
	var product ProductResponse
	json.Unmarshal(created.Body.Bytes(), &product)

	w = doJSON(t, router, http.MethodDelete, "/api/products/"+product.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/products/"+product.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted product must not be found, got %d", w.Code)
	}
}
