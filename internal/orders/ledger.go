package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ledger is the read side of the order store: no business logic, just query
// shaping for the four role dashboards and the detail/timeline view.
type Ledger struct {
	DB *pgxpool.Pool
}

const orderColumns = `
	o.id, o.order_number, o.buyer_id, o.farmer_id, o.product_id, o.quantity,
	o.unit_price, o.total_amount, o.commission_rate, o.commission_amount,
	o.delivery_address, o.delivery_city, o.delivery_state, o.delivery_pincode,
	o.payment_method, o.status, o.cancel_reason, o.created_at, o.updated_at`

func scanOrder(row pgx.Row, o *Order, extra ...any) error {
	dest := []any{
		&o.ID, &o.OrderNumber, &o.BuyerID, &o.FarmerID, &o.ProductID, &o.Quantity,
		&o.UnitPrice, &o.TotalAmount, &o.CommissionRate, &o.CommissionAmount,
		&o.DeliveryAddress, &o.DeliveryCity, &o.DeliveryState, &o.DeliveryPincode,
		&o.PaymentMethod, &o.Status, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

// ListByBuyer returns the buyer's order history with product and farmer
// display fields joined in.
func (l *Ledger) ListByBuyer(ctx context.Context, buyerID int64) ([]OrderSummary, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT `+orderColumns+`, p.name, p.unit, f.name
		FROM orders o
		JOIN products p ON o.product_id = p.id
		JOIN farmers f ON o.farmer_id = f.id
		WHERE o.buyer_id = $1
		ORDER BY o.created_at DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := scanOrder(rows, &s.Order, &s.ProductName, &s.ProductUnit, &s.FarmerName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByFarmer returns the farmer's incoming order queue with buyer names.
func (l *Ledger) ListByFarmer(ctx context.Context, farmerID int64) ([]OrderSummary, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT `+orderColumns+`, p.name, p.unit, b.name
		FROM orders o
		JOIN products p ON o.product_id = p.id
		JOIN buyers b ON o.buyer_id = b.id
		WHERE o.farmer_id = $1
		ORDER BY o.created_at DESC`, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := scanOrder(rows, &s.Order, &s.ProductName, &s.ProductUnit, &s.BuyerName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListLogisticsQueue returns active orders with the pickup (farmer) and
// delivery (buyer) addresses a carrier needs.
func (l *Ledger) ListLogisticsQueue(ctx context.Context) ([]LogisticsQueueRow, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT `+orderColumns+`, p.name, p.unit, b.name, f.name,
		       f.pickup_address, f.city, f.state, f.pincode,
		       b.default_address, b.city, b.state, b.pincode
		FROM orders o
		JOIN products p ON o.product_id = p.id
		JOIN buyers b ON o.buyer_id = b.id
		JOIN farmers f ON o.farmer_id = f.id
		WHERE o.status IN ('placed','accepted','shipped','delivered')
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LogisticsQueueRow
	for rows.Next() {
		var r LogisticsQueueRow
		if err := scanOrder(rows, &r.Order,
			&r.ProductName, &r.ProductUnit, &r.BuyerName, &r.FarmerName,
			&r.Pickup.Line, &r.Pickup.City, &r.Pickup.State, &r.Pickup.Pincode,
			&r.Delivery.Line, &r.Delivery.City, &r.Delivery.State, &r.Delivery.Pincode,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListAll is the admin full listing.
func (l *Ledger) ListAll(ctx context.Context) ([]OrderSummary, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT `+orderColumns+`, p.name, p.unit, b.name, f.name
		FROM orders o
		JOIN products p ON o.product_id = p.id
		JOIN buyers b ON o.buyer_id = b.id
		JOIN farmers f ON o.farmer_id = f.id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderSummary
	for rows.Next() {
		var s OrderSummary
		if err := scanOrder(rows, &s.Order, &s.ProductName, &s.ProductUnit, &s.BuyerName, &s.FarmerName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches one order and its logistics record, if any.
func (l *Ledger) Get(ctx context.Context, orderID int64) (*Order, *LogisticsRecord, error) {
	var o Order
	err := scanOrder(l.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id=$1`, orderID), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var rec LogisticsRecord
	err = l.DB.QueryRow(ctx, `
		SELECT id, order_id, courier_name, tracking_number, estimated_delivery, actual_delivery,
		       pod_upload_url, status, created_at, updated_at
		FROM logistics WHERE order_id=$1`, orderID).
		Scan(&rec.ID, &rec.OrderID, &rec.CourierName, &rec.TrackingNumber, &rec.EstimatedDelivery,
			&rec.ActualDelivery, &rec.PODUploadURL, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &o, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &o, &rec, nil
}
