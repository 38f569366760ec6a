package orders

import "time"

type TimelineEvent struct {
	Status      string    `json:"status"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func courierOr(rec *LogisticsRecord, fallback string) string {
	if rec != nil && rec.CourierName != nil && *rec.CourierName != "" {
		return *rec.CourierName
	}
	return fallback
}

// BuildTimeline derives the human-readable tracking history shown to the
// buyer from the order status and the logistics record.
func BuildTimeline(o *Order, rec *LogisticsRecord) []TimelineEvent {
	events := []TimelineEvent{{
		Status:      "placed",
		Title:       "Order Placed",
		Description: "Your order has been placed successfully",
		Timestamp:   o.CreatedAt,
	}}

	if o.Status == StatusCancelled {
		desc := "The order was cancelled"
		if o.CancelReason != "" {
			desc += ": " + o.CancelReason
		}
		events = append(events, TimelineEvent{
			Status:      "cancelled",
			Title:       "Order Cancelled",
			Description: desc,
			Timestamp:   o.UpdatedAt,
		})
		return events
	}

	switch o.Status {
	case StatusAccepted, StatusShipped, StatusDelivered:
		events = append(events, TimelineEvent{
			Status:      "accepted",
			Title:       "Order Accepted",
			Description: "Farmer has confirmed your order",
			Timestamp:   o.UpdatedAt,
		})
	}

	if rec != nil {
		courier := courierOr(rec, "logistics team")
		ts := rec.UpdatedAt
		switch rec.Status {
		case LogisticsPicked:
			events = append(events, TimelineEvent{
				Status: "logistics", Title: "Order Picked Up",
				Description: "Order picked up by " + courier, Timestamp: ts,
			})
		case LogisticsInTransit:
			events = append(events, TimelineEvent{
				Status: "logistics", Title: "In Transit",
				Description: "Order is on the way to you via " + courier, Timestamp: ts,
			})
		case LogisticsOutForDelivery:
			events = append(events, TimelineEvent{
				Status: "logistics", Title: "Out for Delivery",
				Description: "Order is out for delivery via " + courier, Timestamp: ts,
			})
		case LogisticsDelivered:
			if rec.ActualDelivery != nil {
				ts = *rec.ActualDelivery
			}
			events = append(events, TimelineEvent{
				Status: "delivered", Title: "Delivered",
				Description: "Order delivered successfully via " + courier, Timestamp: ts,
			})
		case LogisticsFailed:
			events = append(events, TimelineEvent{
				Status: "failed", Title: "Delivery Failed",
				Description: "Delivery attempt failed. Please contact the logistics team.", Timestamp: ts,
			})
		case LogisticsReturned:
			events = append(events, TimelineEvent{
				Status: "returned", Title: "Order Returned",
				Description: "Order was returned. Please contact the logistics team.", Timestamp: ts,
			})
		}
	}

	// Orders delivered without a logistics record (farmer self-delivery).
	if o.Status == StatusDelivered && rec == nil {
		events = append(events, TimelineEvent{
			Status:      "delivered",
			Title:       "Delivered",
			Description: "Your order has been delivered successfully",
			Timestamp:   o.UpdatedAt,
		})
	}

	return events
}
