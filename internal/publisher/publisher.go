// Package publisher hands persisted orders to fulfillment. Checkout does not
// fail when dispatch does; the order is already stored and can be re-sent.
package publisher

import (
	"context"
	"log/slog"

	"github.com/greenleaf-pharma/portal-api/internal/models"
)

// OrderPublisher dispatches an assembled order to the fulfillment side.
type OrderPublisher interface {
	PublishOrder(ctx context.Context, order *models.Order) error
}

// NoopPublisher logs instead of publishing, for runs without a broker.
type NoopPublisher struct {
	log *slog.Logger
}

// NewNoopPublisher creates a publisher that only logs.
func NewNoopPublisher(log *slog.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) PublishOrder(ctx context.Context, order *models.Order) error {
	p.log.Info("order dispatch skipped, no broker configured",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
	)
	return nil
}
