package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a financial snapshot: unit_price and commission fields are fixed
// at creation and never change, whatever happens to the product afterwards.
type Order struct {
	ID               int64           `json:"id"`
	OrderNumber      string          `json:"order_number"`
	BuyerID          int64           `json:"buyer_id"`
	FarmerID         int64           `json:"farmer_id"`
	ProductID        int64           `json:"product_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	DeliveryAddress  string          `json:"delivery_address"`
	DeliveryCity     string          `json:"delivery_city"`
	DeliveryState    string          `json:"delivery_state"`
	DeliveryPincode  string          `json:"delivery_pincode"`
	PaymentMethod    string          `json:"payment_method"`
	Status           Status          `json:"status"`
	CancelReason     string          `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LogisticsRecord exists at most once per order and is created lazily on the
// first carrier action.
type LogisticsRecord struct {
	ID                int64           `json:"id"`
	OrderID           int64           `json:"order_id"`
	CourierName       *string         `json:"courier_name,omitempty"`
	TrackingNumber    *string         `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time      `json:"actual_delivery,omitempty"`
	PODUploadURL      *string         `json:"pod_upload_url,omitempty"`
	Status            LogisticsStatus `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// OrderSummary is the denormalized dashboard row: order fields plus display
// names joined from products and the buyer/farmer profiles.
type OrderSummary struct {
	Order
	ProductName string `json:"product_name"`
	ProductUnit string `json:"unit"`
	FarmerName  string `json:"farmer_name,omitempty"`
	BuyerName   string `json:"buyer_name,omitempty"`
}

type Address struct {
	Line    string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// LogisticsQueueRow adds the pickup (farmer) and delivery (buyer) addresses a
// carrier needs to move the parcel.
type LogisticsQueueRow struct {
	OrderSummary
	Pickup   Address `json:"pickup"`
	Delivery Address `json:"delivery"`
}

// OrderDetail is the full view behind the tracking page.
type OrderDetail struct {
	Order     Order            `json:"order"`
	Logistics *LogisticsRecord `json:"logistics,omitempty"`
	Timeline  []TimelineEvent  `json:"timeline"`
}
