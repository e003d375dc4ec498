package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/internal/sanitize"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Search(ctx context.Context, term, category string) ([]models.Product, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory storage.
type InMemoryProductRepository struct {
	products map[string]models.Product
}

// NewInMemoryProductRepository creates an in-memory catalog with the
// wholesale seed assortment.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	products := map[string]models.Product{
		"1":  {ID: "1", Name: "Bedrocan 22/1", Price: 9.50, Stock: 480, Category: "Blüten"},
		"2":  {ID: "2", Name: "Bediol 6/8", Price: 8.20, Stock: 350, Category: "Blüten"},
		"3":  {ID: "3", Name: "Pedanios 8/8", Price: 7.90, Stock: 120, Category: "Blüten"},
		"4":  {ID: "4", Name: "Aurora 20/1", Price: 10.40, Stock: 260, Category: "Blüten"},
		"5":  {ID: "5", Name: "Tilray THC25", Price: 11.80, Stock: 90, Category: "Extrakte"},
		"6":  {ID: "6", Name: "Dronabinol Lösung 25ml", Price: 64.00, Stock: 40, Category: "Extrakte"},
		"7":  {ID: "7", Name: "CBD Öl 10%", Price: 34.90, Stock: 210, Category: "Extrakte"},
		"8":  {ID: "8", Name: "Vaporizer Volcano Medic 2", Price: 349.00, Stock: 15, Category: "Zubehör"},
		"9":  {ID: "9", Name: "Dosierkapseln 50 Stk", Price: 12.50, Stock: 600, Category: "Zubehör"},
		"10": {ID: "10", Name: "Rezeptur-Mühle", Price: 28.00, Stock: 75, Category: "Zubehör"},
	}

	return &InMemoryProductRepository{
		products: products,
	}
}

// GetAll returns the full catalog, ordered by id for stable listings.
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetByID returns a product by its ID.
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Search filters the catalog by a free-text term and an optional category.
// Both inputs pass through the filter-term sanitization policy first.
func (r *InMemoryProductRepository) Search(ctx context.Context, term, category string) ([]models.Product, error) {
	term = strings.ToLower(sanitize.FilterTerm(term))
	category = sanitize.FilterTerm(category)

	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Product, 0, len(all))
	for _, product := range all {
		if term != "" && !strings.Contains(strings.ToLower(product.Name), term) {
			continue
		}
		if category != "" && product.Category != category {
			continue
		}
		matched = append(matched, product)
	}
	return matched, nil
}
