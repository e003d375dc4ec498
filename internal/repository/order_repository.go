package repository

import (
	"context"
	"errors"

	"github.com/greenleaf-pharma/portal-api/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrderNumber surfaces the unique constraint on
	// order_number. Order numbers are collision-resistant, not unique;
	// the database is where uniqueness is actually enforced.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
}
