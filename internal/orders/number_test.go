package orders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOrderNumberFormat(t *testing.T) {
	n := NewOrderNumber()
	require.True(t, strings.HasPrefix(n, "ORD"))
	// ORD + 13-digit millis + 3-digit suffix
	require.Len(t, n, 19)
	for _, c := range n[3:] {
		require.True(t, c >= '0' && c <= '9', "non-digit in %q", n)
	}
}

func TestErrorMessagesNameTheConflict(t *testing.T) {
	err := &StockConflictError{ProductID: 5, ProductName: "Tomatoes", Requested: 4, Available: 1}
	require.Contains(t, err.Error(), "Tomatoes")
	require.Contains(t, err.Error(), "requested 4")

	te := &TransitionError{From: StatusDelivered, To: StatusShipped}
	require.Contains(t, te.Error(), "delivered -> shipped")

	fe := &ForbiddenError{Role: RoleBuyer, Action: "set status shipped"}
	require.Contains(t, fe.Error(), "buyer")
}
