// Package notifier consumes order lifecycle events and fans them out as
// notifications to the parties watching the order. Delivery channels are
// stubbed to the structured log; the consumer mechanics (dedup, manual
// commit) are the real part.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "agrimarket/internal/kafka"
	"agrimarket/internal/orders"
	"agrimarket/internal/redisx"
)

type Service struct {
	Redis *redis.Client
	Log   *zap.Logger
}

// HandleEvent is the consumer handler for every order topic.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message, commit and move on
		s.Log.Warn("undecodable event", zap.Error(err))
		return nil
	}

	// dedup by event id so redeliveries do not notify twice
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}

	switch env.EventType {
	case orders.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.Log.Info("notify farmer: new order",
			zap.Int64("farmer_id", p.FarmerID),
			zap.String("order_number", p.OrderNumber),
			zap.Int("quantity", p.Quantity),
			zap.String("total", p.TotalAmount.String()))
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.Log.Info("notify buyer: order status changed",
			zap.Int64("order_id", p.OrderID),
			zap.String("from", p.From.String()),
			zap.String("to", p.To.String()),
			zap.String("reason", p.Reason))
	case orders.EventLogisticsUpdated:
		p, err := kafkax.UnwrapPayload[orders.LogisticsUpdatedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.Log.Info("notify buyer: delivery update",
			zap.Int64("order_id", p.OrderID),
			zap.String("logistics_status", p.Status.String()),
			zap.String("courier", p.CourierName))
	default:
		return nil
	}

	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}
