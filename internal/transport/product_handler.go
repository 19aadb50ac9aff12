package transport

import (
	"net/http"
	"strconv"

	"product-catalog/internal/apperr"
	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Slug        string   `json:"slug"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Description string   `json:"description"`
	Gender      string   `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        []string `json:"tags"`
	Sizes       []string `json:"sizes"`
	Images      []string `json:"images"`
}

// UpdateProductRequest represents a partial update. Absent fields stay nil
// and leave the stored value untouched; a present-but-empty images list
// replaces the whole collection with nothing.
type UpdateProductRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Slug        *string   `json:"slug"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Description *string   `json:"description"`
	Gender      *string   `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        *[]string `json:"tags"`
	Sizes       *[]string `json:"sizes"`
	Images      *[]string `json:"images"`
}

// ProductResponse is a product with its images flattened to plain URLs
type ProductResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Gender      string   `json:"gender"`
	Tags        []string `json:"tags"`
	Sizes       []string `json:"sizes"`
	Images      []string `json:"images"`
}

// ProductListResponse is the paginated list envelope
type ProductListResponse struct {
	CurrentPage int               `json:"currentPage"`
	MaxPages    int               `json:"maxPages"`
	Limit       int               `json:"limit"`
	Total       int               `json:"total"`
	Next        *string           `json:"next"`
	Prev        *string           `json:"prev"`
	Products    []ProductResponse `json:"products"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{term}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/products with limit/page query parameters
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultLimit)
	page := queryInt(r, "page", service.DefaultPage)

	list, err := h.catalog.FindAll(r.Context(), limit, page)
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}

	response := ProductListResponse{
		CurrentPage: list.CurrentPage,
		MaxPages:    list.MaxPages,
		Limit:       list.Limit,
		Total:       list.Total,
		Next:        list.Next,
		Prev:        list.Prev,
		Products:    make([]ProductResponse, 0, len(list.Products)),
	}
	for _, p := range list.Products {
		response.Products = append(response.Products, toProductResponse(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// Get handles GET /api/products/{term}, where term is an id, slug, or title
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")

	product, err := h.catalog.FindOne(r.Context(), term)
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Create(r.Context(), service.CreateProductInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Gender:      req.Gender,
		Tags:        req.Tags,
		Sizes:       req.Sizes,
		Images:      req.Images,
	})
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("slug", product.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update handles PATCH /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Update(r.Context(), id, service.UpdateProductInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Gender:      req.Gender,
		Tags:        req.Tags,
		Sizes:       req.Sizes,
		Images:      req.Images,
	})
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalog.Remove(r.Context(), id); err != nil {
		h.respondWithAppError(w, err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// respondWithAppError maps the catalog's failure taxonomy onto HTTP statuses.
// NotFound and Conflict carry their actionable message; Internal stays generic.
func (h *ProductHandler) respondWithAppError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case apperr.KindConflict:
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	return ProductResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Gender:      p.Gender,
		Tags:        tags,
		Sizes:       sizes,
		Images:      p.ImageURLs(),
	}
}

// queryInt parses a positive integer query parameter, falling back to def
// for absent, malformed, or non-positive values.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
