package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"ordermgmt/pkg/events"
	"ordermgmt/pkg/logger"
	"ordermgmt/pkg/rabbitmq"
)

// PriceChangeConsumer listens for product price changes so order clerks
// can see price movements on products with open order lines. It only
// logs for now; repricing open orders is a manual step.
type PriceChangeConsumer struct {
	consumer *rabbitmq.Consumer
	log      *logger.Logger
}

// NewPriceChangeConsumer binds a queue to the products exchange for
// price-changed events
func NewPriceChangeConsumer(conn *rabbitmq.Connection, log *logger.Logger) (*PriceChangeConsumer, error) {
	consumer, err := rabbitmq.NewConsumer(conn, "orders.price-changes",
		events.ExchangeProducts, []string{events.RoutingKeyProductPriceChanged}, log)
	if err != nil {
		return nil, err
	}

	return &PriceChangeConsumer{
		consumer: consumer,
		log:      log,
	}, nil
}

// Start begins consuming until ctx is cancelled
func (c *PriceChangeConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handle)
}

func (c *PriceChangeConsumer) handle(ctx context.Context, body []byte) error {
	var envelope struct {
		EventType string                     `json:"event_type"`
		Payload   events.PriceChangedPayload `json:"payload"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode price change event: %w", err)
	}

	c.log.WithContext(ctx).Info("product price changed",
		zap.String("product_number", envelope.Payload.ProductNumber),
		zap.String("old_price", envelope.Payload.OldPrice.String()),
		zap.String("new_price", envelope.Payload.NewPrice.String()),
	)
	return nil
}
