package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/greenleaf-pharma/portal-api/internal/models"
)

// InMemoryOrderRepository implements OrderRepository in memory, for tests and
// database-less local runs. It enforces the same order_number uniqueness as
// the Postgres schema.
type InMemoryOrderRepository struct {
	mu           sync.RWMutex
	orders       map[string]models.Order
	orderNumbers map[string]bool
}

// NewInMemoryOrderRepository creates an empty order store.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders:       make(map[string]models.Order),
		orderNumbers: make(map[string]bool),
	}
}

func (r *InMemoryOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.orderNumbers[order.OrderNumber] {
		return ErrDuplicateOrderNumber
	}

	r.orders[order.ID] = *order
	r.orderNumbers[order.OrderNumber] = true
	return nil
}

func (r *InMemoryOrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

func (r *InMemoryOrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
