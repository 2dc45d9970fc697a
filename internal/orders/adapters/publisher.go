package adapters

import (
	"context"

	"ordermgmt/internal/orders/domain"
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

// PublishOrderCreated publishes an order.created event
func (p *RabbitMQPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderCreated, order)
}

// PublishOrderConfirmed publishes an order.confirmed event
func (p *RabbitMQPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderConfirmed, order)
}

// PublishOrderCancelled publishes an order.cancelled event
func (p *RabbitMQPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderCancelled, order)
}

// PublishOrderDelivered publishes an order.delivered event
func (p *RabbitMQPublisher) PublishOrderDelivered(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderDelivered, order)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, order *domain.Order) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewOrderEvent(routingKey, order.ID, order.OrderNumber,
		order.CustomerID, string(order.Status), order.GrossAmount, traceID)
	return p.publisher.Publish(ctx, routingKey, event)
}
