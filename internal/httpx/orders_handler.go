package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"agrimarket/internal/catalog"
	kafkax "agrimarket/internal/kafka"
	"agrimarket/internal/orders"
	"agrimarket/internal/redisx"
)

type CheckoutReq struct {
	Items           []orders.CartLine `json:"items"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliveryCity    string            `json:"delivery_city"`
	DeliveryState   string            `json:"delivery_state"`
	DeliveryPincode string            `json:"delivery_pincode"`
	PaymentMethod   string            `json:"payment_method"`
}

type CheckoutResp struct {
	Message      string               `json:"message"`
	Orders       []orders.PlacedOrder `json:"orders"`
	OrderNumbers []string             `json:"order_numbers"`
	TotalAmount  string               `json:"total_amount"`
}

type OrdersHandler struct {
	Checkout *orders.Checkout
	Ledger   *orders.Ledger
	Catalog  *catalog.Repo
	Placed   *kafkax.Producer
	Redis    *redis.Client
	Service  string
	Log      *zap.Logger
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Group(func(r chi.Router) {
		r.Use(WithActor)
		r.With(RequireRole(orders.RoleBuyer)).Post("/checkout", h.checkout)
		r.With(RequireRole(orders.RoleBuyer)).Get("/orders/buyer", h.listBuyerOrders)
		r.With(RequireRole(orders.RoleFarmer)).Get("/orders/farmer", h.listFarmerOrders)
		r.With(RequireRole(orders.RoleLogistics, orders.RoleAdmin)).Get("/orders/logistics", h.listLogisticsQueue)
		r.With(RequireRole(orders.RoleAdmin)).Get("/orders", h.listAll)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/{id}/status", h.getOrderStatus)
	})
}

func orderIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func cacheStatus(ctx context.Context, rdb *redis.Client, orderID int64, status orders.Status, logistics orders.LogisticsStatus) {
	body := map[string]string{"status": string(status)}
	if logistics != "" {
		body["logistics_status"] = string(logistics)
	}
	b, _ := json.Marshal(body)
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = rdb.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	var req CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Checkout.Place(ctx, orders.CheckoutInput{
		BuyerID:         actor.UserID,
		Lines:           req.Items,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryCity:    req.DeliveryCity,
		DeliveryState:   req.DeliveryState,
		DeliveryPincode: req.DeliveryPincode,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	numbers := make([]string, 0, len(res.Orders))
	for _, po := range res.Orders {
		numbers = append(numbers, po.OrderNumber)
		cacheStatus(ctx, h.Redis, po.OrderID, orders.StatusPlaced, "")

		ev := orders.Envelope{
			EventID:       uuid.NewString(),
			EventType:     orders.EventOrderPlaced,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      h.Service,
			TraceID:       r.Header.Get("X-Request-Id"),
			CorrelationID: strconv.FormatInt(po.OrderID, 10),
			Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
				OrderID:          po.OrderID,
				OrderNumber:      po.OrderNumber,
				BuyerID:          actor.UserID,
				FarmerID:         po.FarmerID,
				ProductID:        po.ProductID,
				Quantity:         po.Quantity,
				TotalAmount:      po.TotalAmount,
				CommissionAmount: po.CommissionAmount,
			}),
		}
		h.Placed.Publish(orders.PartitionKey(po.OrderID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	h.Log.Info("checkout placed",
		zap.Int64("buyer_id", actor.UserID),
		zap.Int("orders", len(res.Orders)),
		zap.String("total", res.TotalAmount.String()))

	writeJSON(w, http.StatusCreated, CheckoutResp{
		Message:      "Orders placed successfully",
		Orders:       res.Orders,
		OrderNumbers: numbers,
		TotalAmount:  res.TotalAmount.String(),
	})
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.ListActive(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) listBuyerOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Ledger.ListByBuyer(ctx, actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) listFarmerOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Ledger.ListByFarmer(ctx, actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) listLogisticsQueue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Ledger.ListLogisticsQueue(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Ledger.ListAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// canView: buyers and farmers see their own orders, carriers and admins any.
func canView(actor orders.Actor, o *orders.Order) bool {
	switch actor.Role {
	case orders.RoleBuyer:
		return actor.UserID == o.BuyerID
	case orders.RoleFarmer:
		return actor.UserID == o.FarmerID
	case orders.RoleLogistics, orders.RoleAdmin:
		return true
	}
	return false
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := orderIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, rec, err := h.Ledger.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !canView(actor, o) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not authorized to view this order"})
		return
	}

	writeJSON(w, http.StatusOK, orders.OrderDetail{
		Order:     *o,
		Logistics: rec,
		Timeline:  orders.BuildTimeline(o, rec),
	})
}

// getOrderStatus is the cheap poll endpoint behind client-side tracking.
func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := orderIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache only serves carriers and admins directly; owners still need the
	// ownership check, which requires the row anyway
	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if actor.Role == orders.RoleLogistics || actor.Role == orders.RoleAdmin {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	o, rec, err := h.Ledger.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !canView(actor, o) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not authorized to view this order"})
		return
	}

	body := map[string]string{"status": string(o.Status)}
	var ls orders.LogisticsStatus
	if rec != nil {
		ls = rec.Status
		body["logistics_status"] = string(rec.Status)
	}
	cacheStatus(ctx, h.Redis, id, o.Status, ls)
	writeJSON(w, http.StatusOK, body)
}
