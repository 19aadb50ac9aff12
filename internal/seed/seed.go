// Package seed rebuilds the catalog from a built-in product set:
// delete everything, then recreate through the normal create path.
package seed

import (
	"context"
	"fmt"

	"product-catalog/internal/service"

	"go.uber.org/zap"
)

// Seeder wipes and repopulates the catalog
type Seeder struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(catalog service.CatalogService, logger *zap.Logger) *Seeder {
	return &Seeder{
		catalog: catalog,
		logger:  logger,
	}
}

// Run deletes every product, then recreates the seed set
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.catalog.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	for _, input := range seedProducts {
		if _, err := s.catalog.Create(ctx, input); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", input.Title, err)
		}
	}

	s.logger.Info("Catalog seeded", zap.Int("products", len(seedProducts)))
	return nil
}

var seedProducts = []service.CreateProductInput{
	{
		Title:       "Teslo T-Shirt",
		Price:       29.99,
		Stock:       120,
		Description: "Classic crew-neck tee in soft combed cotton.",
		Gender:      "unisex",
		Tags:        []string{"shirt", "cotton"},
		Sizes:       []string{"XS", "S", "M", "L", "XL"},
		Images:      []string{"teslo-tshirt-front.jpg", "teslo-tshirt-back.jpg"},
	},
	{
		Title:       "Men's Chill Crew Neck Sweatshirt",
		Price:       75,
		Stock:       40,
		Description: "Relaxed fit sweatshirt with embroidered logo.",
		Gender:      "men",
		Tags:        []string{"sweatshirt"},
		Sizes:       []string{"S", "M", "L", "XL"},
		Images:      []string{"mens-chill-crew-1.jpg", "mens-chill-crew-2.jpg"},
	},
	{
		Title:       "Women's Cropped Puffer Jacket",
		Price:       130,
		Stock:       25,
		Description: "Water-resistant cropped puffer with hidden hood.",
		Gender:      "women",
		Tags:        []string{"jacket", "winter"},
		Sizes:       []string{"XS", "S", "M"},
		Images:      []string{"womens-puffer-1.jpg"},
	},
	{
		Title:       "Kids Cybertruck Tee",
		Price:       25,
		Stock:       80,
		Description: "Graphic tee featuring the Cybertruck silhouette.",
		Gender:      "kid",
		Tags:        []string{"shirt", "kids"},
		Sizes:       []string{"XS", "S", "M"},
		Images:      []string{"kids-cybertruck-tee.jpg"},
	},
	{
		Title:       "Teslo Logo Cap",
		Price:       22,
		Stock:       200,
		Description: "Six-panel cap with adjustable strap.",
		Gender:      "unisex",
		Tags:        []string{"cap", "accessory"},
		Sizes:       []string{},
		Images:      []string{"teslo-cap-front.jpg", "teslo-cap-side.jpg"},
	},
}
