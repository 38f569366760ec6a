package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"agrimarket/internal/catalog"
	"agrimarket/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the core error taxonomy onto HTTP codes. Anything outside
// the taxonomy is a storage/internal failure and surfaces as a generic 503
// without leaking detail.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *orders.ValidationError
		se *orders.StockConflictError
		pe *orders.ProductUnavailableError
		te *orders.TransitionError
		le *orders.LogisticsTransitionError
		fe *orders.ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &se):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      se.Error(),
			"product_id": se.ProductID,
			"requested":  se.Requested,
			"available":  se.Available,
		})
	case errors.As(err, &pe):
		writeJSON(w, http.StatusConflict, map[string]any{"error": pe.Error(), "product_id": pe.ProductID})
	case errors.As(err, &te):
		writeJSON(w, http.StatusConflict, map[string]string{"error": te.Error()})
	case errors.As(err, &le):
		writeJSON(w, http.StatusConflict, map[string]string{"error": le.Error()})
	case errors.As(err, &fe):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": fe.Error()})
	case errors.Is(err, orders.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, catalog.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service unavailable"})
	}
}
