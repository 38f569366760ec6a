package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "agrimarket/internal/kafka"
	"agrimarket/internal/orders"
)

// FulfillmentHandler routes every status change through the state machine;
// no role dashboard writes status fields on its own.
type FulfillmentHandler struct {
	FSM      *orders.Fulfillment
	Status   *kafkax.Producer // order.status_changed
	Tracking *kafkax.Producer // order.logistics_updated
	Redis    *redis.Client
	Service  string
	Log      *zap.Logger
}

func (h *FulfillmentHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(WithActor)
		r.With(RequireRole(orders.RoleFarmer)).Post("/orders/{id}/accept", h.accept)
		r.With(RequireRole(orders.RoleFarmer, orders.RoleLogistics)).Post("/orders/{id}/ship", h.ship)
		r.With(RequireRole(orders.RoleLogistics)).Post("/orders/{id}/deliver", h.deliver)
		r.With(RequireRole(orders.RoleBuyer, orders.RoleFarmer, orders.RoleAdmin)).Post("/orders/{id}/cancel", h.cancel)
		r.With(RequireRole(orders.RoleLogistics, orders.RoleAdmin)).Patch("/orders/{id}/tracking", h.updateTracking)
	})
}

type cancelReq struct {
	Reason string `json:"reason"`
}

func (h *FulfillmentHandler) accept(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, "", func(ctx context.Context, actor orders.Actor, id int64) (*orders.TransitionResult, error) {
		return h.FSM.Accept(ctx, actor, id)
	})
}

func (h *FulfillmentHandler) ship(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, "", func(ctx context.Context, actor orders.Actor, id int64) (*orders.TransitionResult, error) {
		return h.FSM.Ship(ctx, actor, id)
	})
}

func (h *FulfillmentHandler) deliver(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, "", func(ctx context.Context, actor orders.Actor, id int64) (*orders.TransitionResult, error) {
		return h.FSM.Deliver(ctx, actor, id)
	})
}

func (h *FulfillmentHandler) cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // reason is optional
	}
	h.simpleTransition(w, r, req.Reason, func(ctx context.Context, actor orders.Actor, id int64) (*orders.TransitionResult, error) {
		return h.FSM.Cancel(ctx, actor, id, req.Reason)
	})
}

func (h *FulfillmentHandler) simpleTransition(
	w http.ResponseWriter,
	r *http.Request,
	reason string,
	do func(context.Context, orders.Actor, int64) (*orders.TransitionResult, error),
) {
	actor, _ := ActorFromContext(r.Context())
	id, err := orderIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := do(ctx, actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	cacheStatus(ctx, h.Redis, res.OrderID, res.To, "")
	h.publishStatusChanged(r, actor, res, reason)

	h.Log.Info("order status changed",
		zap.Int64("order_id", res.OrderID),
		zap.String("from", res.From.String()),
		zap.String("to", res.To.String()),
		zap.String("actor_role", string(actor.Role)))

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Order status updated successfully",
		"order_id": res.OrderID,
		"status":   res.To,
	})
}

type trackingReq struct {
	Status            orders.LogisticsStatus `json:"status"`
	CourierName       *string                `json:"courier_name"`
	TrackingNumber    *string                `json:"tracking_number"`
	EstimatedDelivery *time.Time             `json:"estimated_delivery"`
	PODUploadURL      *string                `json:"pod_upload_url"`
}

func (h *FulfillmentHandler) updateTracking(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := orderIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	var req trackingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, orderStatus, err := h.FSM.UpdateLogistics(ctx, actor, id, orders.LogisticsUpdate{
		Status:            req.Status,
		CourierName:       req.CourierName,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
		PODUploadURL:      req.PODUploadURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	cacheStatus(ctx, h.Redis, id, orderStatus, rec.Status)

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventLogisticsUpdated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: strconv.FormatInt(id, 10),
		Payload: kafkax.MustMarshal(orders.LogisticsUpdatedPayload{
			OrderID:        id,
			Status:         rec.Status,
			CourierName:    strOrEmpty(rec.CourierName),
			TrackingNumber: strOrEmpty(rec.TrackingNumber),
			OrderStatus:    orderStatus,
		}),
	}
	h.Tracking.Publish(orders.PartitionKey(id), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventLogisticsUpdated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	h.Log.Info("logistics tracking updated",
		zap.Int64("order_id", id),
		zap.String("logistics_status", rec.Status.String()),
		zap.String("order_status", orderStatus.String()))

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Tracking updated successfully",
		"logistics":    rec,
		"order_status": orderStatus,
	})
}

func (h *FulfillmentHandler) publishStatusChanged(r *http.Request, actor orders.Actor, res *orders.TransitionResult, reason string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: strconv.FormatInt(res.OrderID, 10),
		Payload: kafkax.MustMarshal(orders.OrderStatusChangedPayload{
			OrderID:     res.OrderID,
			OrderNumber: res.OrderNumber,
			From:        res.From,
			To:          res.To,
			ActorRole:   actor.Role,
			Reason:      reason,
		}),
	}
	h.Status.Publish(orders.PartitionKey(res.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
