package service

import (
	"context"

	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/internal/repository"
)

// ProductService handles business logic for the catalog.
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns the full catalog, or a filtered view when a search
// term or category is given.
func (s *ProductService) ListProducts(ctx context.Context, term, category string) ([]models.Product, error) {
	if term == "" && category == "" {
		return s.repo.GetAll(ctx)
	}
	return s.repo.Search(ctx, term, category)
}

// GetProduct returns a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}
