package service

import (
	"context"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// componentName tags diagnostic log entries written by the error classifier
const componentName = "CatalogService"

// CreateProductInput carries the pre-validated fields for a new product
type CreateProductInput struct {
	Title       string
	Slug        string
	Price       float64
	Stock       int
	Description string
	Gender      string
	Tags        []string
	Sizes       []string
	Images      []string
}

// UpdateProductInput carries a partial update. Nil fields are left untouched.
// Images follows the same rule: nil means "keep the existing collection",
// while a non-nil pointer (even to an empty list) replaces the whole set.
type UpdateProductInput struct {
	Title       *string
	Slug        *string
	Price       *float64
	Stock       *int
	Description *string
	Gender      *string
	Tags        *[]string
	Sizes       *[]string
	Images      *[]string
}

// ProductList is the stable list-response shape for any caller
type ProductList struct {
	CurrentPage int               `json:"currentPage"`
	MaxPages    int               `json:"maxPages"`
	Limit       int               `json:"limit"`
	Total       int               `json:"total"`
	Next        *string           `json:"next"`
	Prev        *string           `json:"prev"`
	Products    []*domain.Product `json:"products"`
}

// CatalogService is the entry point for every catalog operation. It resolves
// lookup terms, computes pagination metadata, materializes image collections,
// and funnels every failure through the error classifier.
type CatalogService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	FindAll(ctx context.Context, limit, page int) (*ProductList, error)
	FindOne(ctx context.Context, term string) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Remove(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type catalogService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		products: products,
		logger:   logger,
	}
}

// Create materializes a product plus its image collection and persists both
// in one write. A colliding slug surfaces as a Conflict.
func (s *catalogService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        input.Slug,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
		Gender:      input.Gender,
		Tags:        input.Tags,
		Sizes:       input.Sizes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.NormalizeSlug()
	product.Images = domain.ImagesFromURLs(product.ID, input.Images)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, classify(s.logger, componentName, err)
	}

	return product, nil
}

// FindAll returns one page of products with pagination metadata computed over
// the store's current total. Non-positive limit or page fall back to the
// defaults before the calculator runs.
func (s *catalogService) FindAll(ctx context.Context, limit, page int) (*ProductList, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}

	products, total, err := s.products.List(ctx, limit, offsetFor(limit, page))
	if err != nil {
		return nil, classify(s.logger, componentName, err)
	}

	window := paginate(total, limit, page)

	return &ProductList{
		CurrentPage: page,
		MaxPages:    window.MaxPages,
		Limit:       limit,
		Total:       total,
		Next:        window.Next,
		Prev:        window.Prev,
		Products:    products,
	}, nil
}

// FindOne resolves a term to a product. A UUID term looks up by identifier;
// anything else matches title or slug case-insensitively.
func (s *catalogService) FindOne(ctx context.Context, term string) (*domain.Product, error) {
	var (
		product *domain.Product
		err     error
	)

	if id, ok := parseTerm(term); ok {
		product, err = s.products.FindByID(ctx, id)
	} else {
		product, err = s.products.FindByTitleOrSlug(ctx, term)
	}
	if err != nil {
		return nil, classify(s.logger, componentName, err)
	}

	return product, nil
}

// Update merges the supplied fields onto the existing product and persists
// the result in a single transaction. When input.Images is non-nil the whole
// image collection is replaced inside that transaction; the client always
// submits the full desired URL list, never a diff, so the old set is
// destroyed and recreated rather than reconciled. On any failure the
// transaction rolls back and no partial state is observable.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, classify(s.logger, componentName, err)
	}

	mergeFields(product, input)
	product.UpdatedAt = time.Now()

	replaceImages := input.Images != nil
	if replaceImages {
		product.Images = domain.ImagesFromURLs(id, *input.Images)
	}

	if err := s.products.Update(ctx, product, replaceImages); err != nil {
		return nil, classify(s.logger, componentName, err)
	}

	// Reload post-commit so the caller sees exactly what a subsequent read would
	return s.FindOne(ctx, id.String())
}

// Remove deletes a product by identifier; its images go with it by the
// cascade ownership rule.
func (s *catalogService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return classify(s.logger, componentName, err)
	}
	return nil
}

// DeleteAll wipes the catalog. Only the seeding flow calls this.
func (s *catalogService) DeleteAll(ctx context.Context) error {
	if err := s.products.DeleteAll(ctx); err != nil {
		return classify(s.logger, componentName, err)
	}
	return nil
}

// mergeFields applies the non-nil scalar fields of input onto product,
// leaving the image collection alone. A supplied slug is normalized; a title
// change without an explicit slug keeps the stored slug, matching the
// partial-update contract.
func mergeFields(product *domain.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Slug != nil {
		product.Slug = domain.Slugify(*input.Slug)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Gender != nil {
		product.Gender = *input.Gender
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.Sizes != nil {
		product.Sizes = *input.Sizes
	}
}
