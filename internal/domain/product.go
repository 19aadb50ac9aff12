package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product with its owned images
type Product struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Slug        string         `json:"slug" db:"slug"`
	Price       float64        `json:"price" db:"price"`
	Stock       int            `json:"stock" db:"stock"`
	Description string         `json:"description" db:"description"`
	Gender      string         `json:"gender" db:"gender"`
	Tags        []string       `json:"tags" db:"tags"`
	Sizes       []string       `json:"sizes" db:"sizes"`
	Images      []ProductImage `json:"images"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ProductImage represents an image owned by exactly one product.
// Images never outlive their product and are never shared.
type ProductImage struct {
	ID        int64     `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
}

// ImageURLs flattens the image collection to a plain URL list in stored order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, len(p.Images))
	for i, img := range p.Images {
		urls[i] = img.URL
	}
	return urls
}

// NormalizeSlug ensures the product has a URL-safe slug. A missing slug is
// derived from the title; a supplied slug is normalized the same way so the
// uniqueness constraint compares canonical values.
func (p *Product) NormalizeSlug() {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
		return
	}
	p.Slug = Slugify(p.Slug)
}

// Slugify derives a deterministic URL-safe key from a title:
// lowercase, spaces become underscores, apostrophes are removed, and any
// remaining run of disallowed characters collapses to a single underscore.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")

	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = r == '_'
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// ImagesFromURLs materializes unpersisted image records for a product,
// preserving input order. Identifiers are assigned at persistence time.
func ImagesFromURLs(productID uuid.UUID, urls []string) []ProductImage {
	images := make([]ProductImage, len(urls))
	for i, url := range urls {
		images[i] = ProductImage{
			URL:       url,
			ProductID: productID,
		}
	}
	return images
}
