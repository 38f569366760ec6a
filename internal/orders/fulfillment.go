package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agrimarket/internal/catalog"
)

// Fulfillment is the single authority for status changes. Every transition
// reads the current status under a row lock in the same transaction that
// writes the next one, so a request can never be applied against stale state.
type Fulfillment struct {
	DB *pgxpool.Pool
}

type TransitionResult struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	From        Status `json:"from"`
	To          Status `json:"to"`
}

func (f *Fulfillment) Accept(ctx context.Context, actor Actor, orderID int64) (*TransitionResult, error) {
	return f.transition(ctx, actor, orderID, StatusAccepted, "")
}

func (f *Fulfillment) Ship(ctx context.Context, actor Actor, orderID int64) (*TransitionResult, error) {
	return f.transition(ctx, actor, orderID, StatusShipped, "")
}

func (f *Fulfillment) Deliver(ctx context.Context, actor Actor, orderID int64) (*TransitionResult, error) {
	return f.transition(ctx, actor, orderID, StatusDelivered, "")
}

func (f *Fulfillment) Cancel(ctx context.Context, actor Actor, orderID int64, reason string) (*TransitionResult, error) {
	return f.transition(ctx, actor, orderID, StatusCancelled, reason)
}

func (f *Fulfillment) transition(ctx context.Context, actor Actor, orderID int64, to Status, reason string) (*TransitionResult, error) {
	if !ValidRole(actor.Role) {
		return nil, &ForbiddenError{Role: actor.Role, Action: "change order status"}
	}

	tx, err := f.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		orderNumber       string
		buyerID, farmerID int64
		productID         int64
		quantity          int
		current           Status
	)
	err = tx.QueryRow(ctx, `
		SELECT order_number, buyer_id, farmer_id, product_id, quantity, status
		FROM orders WHERE id=$1 FOR UPDATE`, orderID).
		Scan(&orderNumber, &buyerID, &farmerID, &productID, &quantity, &current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanTransition(current, to) {
		return nil, &TransitionError{From: current, To: to}
	}
	if !RoleMayTransition(current, to, actor.Role) {
		return nil, &ForbiddenError{Role: actor.Role, Action: "set status " + to.String()}
	}
	// Buyers and farmers may only act on their own orders.
	if actor.Role == RoleBuyer && actor.UserID != buyerID {
		return nil, &ForbiddenError{Role: actor.Role, Action: "act on another buyer's order"}
	}
	if actor.Role == RoleFarmer && actor.UserID != farmerID {
		return nil, &ForbiddenError{Role: actor.Role, Action: "act on another farmer's order"}
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET status=$2, cancel_reason=COALESCE(NULLIF($3,''), cancel_reason), updated_at=now()
		WHERE id=$1`, orderID, to, reason)
	if err != nil {
		return nil, err
	}

	// Cancellation puts the reserved quantity back on the shelf so the stock
	// invariant (initial - sum of live orders == current) keeps holding.
	if to == StatusCancelled {
		if err := catalog.RestoreStock(ctx, tx, productID, quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &TransitionResult{OrderID: orderID, OrderNumber: orderNumber, From: current, To: to}, nil
}

type LogisticsUpdate struct {
	Status            LogisticsStatus `json:"status,omitempty"`
	CourierName       *string         `json:"courier_name,omitempty"`
	TrackingNumber    *string         `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	PODUploadURL      *string         `json:"pod_upload_url,omitempty"`
}

// UpdateLogistics upserts the logistics record (created lazily on the first
// carrier action) and applies the one cross-machine rule: logistics=delivered
// force-sets the order to delivered in the same transaction, so no reader
// ever observes the parcel delivered while the order still says shipped.
func (f *Fulfillment) UpdateLogistics(ctx context.Context, actor Actor, orderID int64, upd LogisticsUpdate) (*LogisticsRecord, Status, error) {
	if !RoleMayUpdateLogistics(actor.Role) {
		return nil, "", &ForbiddenError{Role: actor.Role, Action: "update logistics tracking"}
	}
	if upd.Status != "" && !ValidLogisticsStatus(upd.Status) {
		return nil, "", &ValidationError{Field: "status", Reason: "unknown logistics status"}
	}

	tx, err := f.DB.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderStatus Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&orderStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrOrderNotFound
	}
	if err != nil {
		return nil, "", err
	}

	var (
		recID   int64
		current LogisticsStatus
		exists  = true
	)
	err = tx.QueryRow(ctx, `SELECT id, status FROM logistics WHERE order_id=$1 FOR UPDATE`, orderID).
		Scan(&recID, &current)
	if errors.Is(err, pgx.ErrNoRows) {
		exists = false
	} else if err != nil {
		return nil, "", err
	}

	effective := upd.Status
	if !exists {
		if effective == "" {
			effective = LogisticsPicked
		}
		if effective != LogisticsPicked {
			return nil, "", &ValidationError{Field: "status", Reason: "tracking must start at picked"}
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO logistics (order_id, courier_name, tracking_number, estimated_delivery, pod_upload_url, status)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id`,
			orderID, upd.CourierName, upd.TrackingNumber, upd.EstimatedDelivery, upd.PODUploadURL, effective,
		).Scan(&recID)
		if err != nil {
			return nil, "", err
		}
	} else {
		if effective == "" || effective == current {
			effective = current
		} else if !CanTransitionLogistics(current, effective) {
			return nil, "", &LogisticsTransitionError{From: current, To: effective}
		}
		_, err = tx.Exec(ctx, `
			UPDATE logistics
			SET courier_name       = COALESCE($2, courier_name),
			    tracking_number    = COALESCE($3, tracking_number),
			    estimated_delivery = COALESCE($4, estimated_delivery),
			    pod_upload_url     = COALESCE($5, pod_upload_url),
			    status             = $6,
			    updated_at         = now()
			WHERE id=$1`,
			recID, upd.CourierName, upd.TrackingNumber, upd.EstimatedDelivery, upd.PODUploadURL, effective)
		if err != nil {
			return nil, "", err
		}
	}

	justDelivered := effective == LogisticsDelivered && (!exists || current != LogisticsDelivered)
	if justDelivered {
		if _, err := tx.Exec(ctx, `UPDATE logistics SET actual_delivery=now(), updated_at=now() WHERE id=$1`, recID); err != nil {
			return nil, "", err
		}
		if orderStatus != StatusDelivered {
			if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, StatusDelivered); err != nil {
				return nil, "", err
			}
			orderStatus = StatusDelivered
		}
	}

	var rec LogisticsRecord
	err = tx.QueryRow(ctx, `
		SELECT id, order_id, courier_name, tracking_number, estimated_delivery, actual_delivery,
		       pod_upload_url, status, created_at, updated_at
		FROM logistics WHERE id=$1`, recID).
		Scan(&rec.ID, &rec.OrderID, &rec.CourierName, &rec.TrackingNumber, &rec.EstimatedDelivery,
			&rec.ActualDelivery, &rec.PODUploadURL, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}
	return &rec, orderStatus, nil
}
