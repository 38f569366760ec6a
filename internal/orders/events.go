package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventLogisticsUpdated   = "LogisticsUpdated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "agrimarket-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID          int64           `json:"order_id"`
	OrderNumber      string          `json:"order_number"`
	BuyerID          int64           `json:"buyer_id"`
	FarmerID         int64           `json:"farmer_id"`
	ProductID        int64           `json:"product_id"`
	Quantity         int             `json:"quantity"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
}

type OrderStatusChangedPayload struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        Status `json:"from"`
	To          Status `json:"to"`
	ActorRole   Role   `json:"actor_role"`
	Reason      string `json:"reason,omitempty"`
}

type LogisticsUpdatedPayload struct {
	OrderID        int64           `json:"order_id"`
	Status         LogisticsStatus `json:"status"`
	CourierName    string          `json:"courier_name,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	OrderStatus    Status          `json:"order_status"`
}
