package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func baseOrder(status Status) *Order {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Order{
		ID:          1,
		OrderNumber: "ORD1000",
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created.Add(2 * time.Hour),
	}
}

func TestTimelinePlacedOnly(t *testing.T) {
	ev := BuildTimeline(baseOrder(StatusPlaced), nil)
	require.Len(t, ev, 1)
	require.Equal(t, "placed", ev[0].Status)
	require.Equal(t, baseOrder(StatusPlaced).CreatedAt, ev[0].Timestamp)
}

func TestTimelineAccepted(t *testing.T) {
	ev := BuildTimeline(baseOrder(StatusAccepted), nil)
	require.Len(t, ev, 2)
	require.Equal(t, "accepted", ev[1].Status)
}

func TestTimelineWithCourier(t *testing.T) {
	o := baseOrder(StatusShipped)
	rec := &LogisticsRecord{
		Status:      LogisticsInTransit,
		CourierName: strPtr("AgriExpress"),
		UpdatedAt:   o.UpdatedAt,
	}
	ev := BuildTimeline(o, rec)
	require.Len(t, ev, 3)
	require.Equal(t, "logistics", ev[2].Status)
	require.Contains(t, ev[2].Description, "AgriExpress")
}

func TestTimelineCourierFallback(t *testing.T) {
	o := baseOrder(StatusShipped)
	rec := &LogisticsRecord{Status: LogisticsPicked, UpdatedAt: o.UpdatedAt}
	ev := BuildTimeline(o, rec)
	require.Contains(t, ev[2].Description, "logistics team")
}

func TestTimelineDeliveredViaLogistics(t *testing.T) {
	o := baseOrder(StatusDelivered)
	delivered := o.UpdatedAt.Add(30 * time.Minute)
	rec := &LogisticsRecord{
		Status:         LogisticsDelivered,
		CourierName:    strPtr("AgriExpress"),
		ActualDelivery: &delivered,
		UpdatedAt:      o.UpdatedAt,
	}
	ev := BuildTimeline(o, rec)
	last := ev[len(ev)-1]
	require.Equal(t, "delivered", last.Status)
	require.Equal(t, delivered, last.Timestamp)
}

func TestTimelineDeliveredWithoutLogistics(t *testing.T) {
	ev := BuildTimeline(baseOrder(StatusDelivered), nil)
	last := ev[len(ev)-1]
	require.Equal(t, "delivered", last.Status)
	require.Equal(t, "Your order has been delivered successfully", last.Description)
}

func TestTimelineFailedDelivery(t *testing.T) {
	o := baseOrder(StatusShipped)
	rec := &LogisticsRecord{Status: LogisticsFailed, UpdatedAt: o.UpdatedAt}
	ev := BuildTimeline(o, rec)
	require.Equal(t, "failed", ev[len(ev)-1].Status)
}

func TestTimelineCancelled(t *testing.T) {
	o := baseOrder(StatusCancelled)
	o.CancelReason = "buyer changed mind"
	ev := BuildTimeline(o, nil)
	require.Len(t, ev, 2)
	require.Equal(t, "cancelled", ev[1].Status)
	require.Contains(t, ev[1].Description, "buyer changed mind")
}
