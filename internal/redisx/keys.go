package redisx

import "time"

const (
	// Cache of the buyer-facing status poll: order_status:{order_id} ->
	// {"status":"...","logistics_status":"..."}
	KeyOrderStatus = "order_status:%d"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
