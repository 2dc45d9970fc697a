package adapters

import (
	"context"

	"ordermgmt/internal/customers/domain"
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

// PublishCustomerCreated publishes a customer created event
func (p *RabbitMQPublisher) PublishCustomerCreated(ctx context.Context, customer *domain.Customer) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewCustomerCreatedEvent(customer.ID, customer.CustomerNumber, string(customer.Status), traceID)
	return p.publisher.Publish(ctx, events.RoutingKeyCustomerCreated, event)
}

// PublishCustomerBlocked publishes a customer blocked event
func (p *RabbitMQPublisher) PublishCustomerBlocked(ctx context.Context, customer *domain.Customer) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewCustomerBlockedEvent(customer.ID, customer.CustomerNumber, traceID)
	return p.publisher.Publish(ctx, events.RoutingKeyCustomerBlocked, event)
}
