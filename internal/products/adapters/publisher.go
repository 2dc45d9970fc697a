package adapters

import (
	"context"

	"github.com/shopspring/decimal"

	"ordermgmt/internal/products/domain"
	"ordermgmt/pkg/events"
	"ordermgmt/pkg/logger"
	"ordermgmt/pkg/rabbitmq"
)

// RabbitMQPublisher implements EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		publisher: publisher,
		log:       log,
	}
}

// PublishPriceChanged publishes a product price-changed event
func (p *RabbitMQPublisher) PublishPriceChanged(ctx context.Context, product *domain.Product, oldPrice, newPrice decimal.Decimal) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewProductPriceChangedEvent(
		product.ID, product.ProductNumber, oldPrice, newPrice, product.Currency, traceID)
	return p.publisher.Publish(ctx, events.RoutingKeyProductPriceChanged, event)
}

// PublishStockAdjusted publishes a product stock-adjusted event
func (p *RabbitMQPublisher) PublishStockAdjusted(ctx context.Context, product *domain.Product, oldStock, newStock int, reason string) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewProductStockAdjustedEvent(
		product.ID, product.ProductNumber, oldStock, newStock, reason, traceID)
	return p.publisher.Publish(ctx, events.RoutingKeyProductStockAdjust, event)
}
