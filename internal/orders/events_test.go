package orders

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload, err := json.Marshal(OrderStatusChangedPayload{
		OrderID:     42,
		OrderNumber: "ORD1700000000000123",
		From:        StatusPlaced,
		To:          StatusAccepted,
		ActorRole:   RoleFarmer,
	})
	require.NoError(t, err)

	env := Envelope{
		EventID:       "e-1",
		EventType:     EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Producer:      "agrimarket-api",
		CorrelationID: "42",
		Payload:       payload,
	}

	b, err := json.Marshal(env)
	require.NoError(t, err)

	var got Envelope
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, EventOrderStatusChanged, got.EventType)

	var p OrderStatusChangedPayload
	require.NoError(t, json.Unmarshal(got.Payload, &p))
	require.Equal(t, StatusPlaced, p.From)
	require.Equal(t, StatusAccepted, p.To)
	require.Equal(t, RoleFarmer, p.ActorRole)
}

func TestOrderPlacedPayloadMoneyEncoding(t *testing.T) {
	b, err := json.Marshal(OrderPlacedPayload{
		OrderID:          7,
		TotalAmount:      decimal.RequireFromString("300"),
		CommissionAmount: decimal.RequireFromString("15"),
	})
	require.NoError(t, err)

	var p OrderPlacedPayload
	require.NoError(t, json.Unmarshal(b, &p))
	require.True(t, p.TotalAmount.Equal(decimal.NewFromInt(300)))
	require.True(t, p.CommissionAmount.Equal(decimal.NewFromInt(15)))
}

func TestPartitionKey(t *testing.T) {
	require.Equal(t, []byte("42"), PartitionKey(42))
}
