package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validInput() CheckoutInput {
	return CheckoutInput{
		BuyerID:         1,
		Lines:           []CartLine{{ProductID: 3, Quantity: 2}},
		DeliveryAddress: "12 Market Rd",
		DeliveryCity:    "Pune",
		PaymentMethod:   "cod",
	}
}

func TestValidateCheckoutInput(t *testing.T) {
	require.NoError(t, ValidateCheckoutInput(validInput()))

	in := validInput()
	in.BuyerID = 0
	requireFieldError(t, ValidateCheckoutInput(in), "buyer_id")

	in = validInput()
	in.Lines = nil
	requireFieldError(t, ValidateCheckoutInput(in), "items")

	in = validInput()
	in.Lines[0].Quantity = 0
	requireFieldError(t, ValidateCheckoutInput(in), "items.quantity")

	in = validInput()
	in.Lines[0].Quantity = -4
	requireFieldError(t, ValidateCheckoutInput(in), "items.quantity")

	in = validInput()
	in.Lines[0].ProductID = 0
	requireFieldError(t, ValidateCheckoutInput(in), "items.product_id")

	in = validInput()
	in.DeliveryAddress = ""
	requireFieldError(t, ValidateCheckoutInput(in), "delivery_address")

	in = validInput()
	in.PaymentMethod = "card"
	requireFieldError(t, ValidateCheckoutInput(in), "payment_method")

	// empty payment method defaults to cod later, so it passes validation
	in = validInput()
	in.PaymentMethod = ""
	require.NoError(t, ValidateCheckoutInput(in))
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, field, ve.Field)
}

func TestCommissionAmount(t *testing.T) {
	five := decimal.NewFromInt(5)

	// price 100 x qty 3 -> total 300, commission 15 at 5%
	total := decimal.NewFromInt(100).Mul(decimal.NewFromInt(3))
	require.True(t, CommissionAmount(total, five).Equal(decimal.NewFromInt(15)))

	// rounds to cents
	got := CommissionAmount(decimal.RequireFromString("99.99"), five)
	require.True(t, got.Equal(decimal.RequireFromString("5.00")), got.String())

	got = CommissionAmount(decimal.RequireFromString("33.33"), decimal.RequireFromString("2.5"))
	require.True(t, got.Equal(decimal.RequireFromString("0.83")), got.String())

	require.True(t, CommissionAmount(decimal.Zero, five).IsZero())
}

func TestSortedLinesLockOrder(t *testing.T) {
	in := []CartLine{{ProductID: 9, Quantity: 1}, {ProductID: 2, Quantity: 5}, {ProductID: 7, Quantity: 3}}
	out := sortedLines(in)

	require.Equal(t, []CartLine{{ProductID: 2, Quantity: 5}, {ProductID: 7, Quantity: 3}, {ProductID: 9, Quantity: 1}}, out)
	// input order untouched
	require.Equal(t, int64(9), in[0].ProductID)
}
