package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"product-catalog/internal/apperr"
	"product-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for unique-constraint violations
const uniqueViolation = "23505"

// ProductRepository defines the interface for product data access.
// Implementations own the transaction boundary: Create and Update are atomic,
// and a product's images are written or replaced only inside the same
// transaction as the product row.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByTitleOrSlug(ctx context.Context, term string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product, replaceImages bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a product and its image collection in a single transaction
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (id, title, slug, price, stock, description, gender, tags, sizes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Slug,
		product.Price,
		product.Stock,
		product.Description,
		product.Gender,
		pq.Array(product.Tags),
		pq.Array(product.Sizes),
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return classifyWriteError(err, "failed to create product")
	}

	if err := insertImages(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit create: %w", err)
	}

	return nil
}

// FindByID retrieves a product with its images in stored order
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, title, slug, price, stock, description, gender, tags, sizes, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("id", id.String())
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if err := r.loadImages(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// FindByTitleOrSlug retrieves a product by case-insensitive equality against
// its title or slug. Slug is the primary match path; title is a secondary
// path since titles are not guaranteed unique.
func (r *productRepository) FindByTitleOrSlug(ctx context.Context, term string) (*domain.Product, error) {
	query := `
		SELECT id, title, slug, price, stock, description, gender, tags, sizes, created_at, updated_at
		FROM products
		WHERE LOWER(slug) = $1 OR LOWER(title) = $1
		LIMIT 1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, strings.ToLower(term)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("slug", term)
		}
		return nil, fmt.Errorf("failed to find product by term: %w", err)
	}

	if err := r.loadImages(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// List retrieves a page of products with their images, plus the total count.
// The count and the page are read back to back over the same pool so the
// pagination metadata stays close to the page contents.
func (r *productRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT id, title, slug, price, stock, description, gender, tags, sizes, created_at, updated_at
		FROM products
		ORDER BY title ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.loadImagesForAll(ctx, products); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Update persists the merged product row and, when replaceImages is set,
// atomically swaps the whole image collection for product.Images. The delete
// and the re-insert happen inside one transaction so no reader ever observes
// the intermediate "old images gone, new images missing" state.
func (r *productRepository) Update(ctx context.Context, product *domain.Product, replaceImages bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if replaceImages {
		_, err = tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = $1", product.ID)
		if err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
	}

	query := `
		UPDATE products
		SET title = $2, slug = $3, price = $4, stock = $5, description = $6,
		    gender = $7, tags = $8, sizes = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Slug,
		product.Price,
		product.Stock,
		product.Description,
		product.Gender,
		pq.Array(product.Tags),
		pq.Array(product.Sizes),
		product.UpdatedAt,
	)
	if err != nil {
		return classifyWriteError(err, "failed to update product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("id", product.ID.String())
	}

	if replaceImages {
		if err := insertImages(ctx, tx, product); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}

	return nil
}

// Delete removes a product by identifier. Images go with it via the
// ON DELETE CASCADE ownership rule on product_images.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("id", id.String())
	}

	return nil
}

// DeleteAll removes every product and, by cascade, every image. Used only by
// the seeding flow.
func (r *productRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to delete all products: %w", err)
	}
	return nil
}

// insertImages persists the product's unmaterialized images within tx,
// preserving input order via the serial image id.
func insertImages(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	query := `
		INSERT INTO product_images (url, product_id)
		VALUES ($1, $2)
		RETURNING id
	`

	for i := range product.Images {
		img := &product.Images[i]
		img.ProductID = product.ID
		if err := tx.QueryRowContext(ctx, query, img.URL, product.ID).Scan(&img.ID); err != nil {
			return classifyWriteError(err, "failed to create product image")
		}
	}

	return nil
}

// loadImages attaches a product's images in stored (insertion) order
func (r *productRepository) loadImages(ctx context.Context, product *domain.Product) error {
	query := `
		SELECT id, url, product_id
		FROM product_images
		WHERE product_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, product.ID)
	if err != nil {
		return fmt.Errorf("failed to load product images: %w", err)
	}
	defer rows.Close()

	product.Images = []domain.ProductImage{}
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.URL, &img.ProductID); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		product.Images = append(product.Images, img)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating product images: %w", err)
	}

	return nil
}

// loadImagesForAll attaches images for a whole page of products in one query
func (r *productRepository) loadImagesForAll(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID.String()
		byID[p.ID] = p
		p.Images = []domain.ProductImage{}
	}

	query := `
		SELECT id, url, product_id
		FROM product_images
		WHERE product_id = ANY($1::uuid[])
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load images for page: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.URL, &img.ProductID); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		if owner, ok := byID[img.ProductID]; ok {
			owner.Images = append(owner.Images, img)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating page images: %w", err)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Slug,
		&product.Price,
		&product.Stock,
		&product.Description,
		&product.Gender,
		pq.Array(&product.Tags),
		pq.Array(&product.Sizes),
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// classifyWriteError maps a unique-constraint violation to a Conflict carrying
// the constraint detail from Postgres; everything else stays an opaque wrapped
// error for the classifier to treat as Internal.
func classifyWriteError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		detail := pgErr.Detail
		if detail == "" {
			detail = pgErr.Message
		}
		return apperr.Conflict(detail, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
