package orders

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"agrimarket/internal/catalog"
)

type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CheckoutInput struct {
	BuyerID         int64      `json:"buyer_id"`
	Lines           []CartLine `json:"items"`
	DeliveryAddress string     `json:"delivery_address"`
	DeliveryCity    string     `json:"delivery_city"`
	DeliveryState   string     `json:"delivery_state"`
	DeliveryPincode string     `json:"delivery_pincode"`
	PaymentMethod   string     `json:"payment_method"`
}

type PlacedOrder struct {
	OrderID          int64           `json:"order_id"`
	OrderNumber      string          `json:"order_number"`
	ProductID        int64           `json:"product_id"`
	FarmerID         int64           `json:"farmer_id"`
	Quantity         int             `json:"quantity"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
}

type CheckoutResult struct {
	Orders      []PlacedOrder   `json:"orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Checkout converts a buyer's cart into one order per product inside a single
// transaction. Either every line commits or none does.
type Checkout struct {
	DB             *pgxpool.Pool
	CommissionRate decimal.Decimal // percent
}

// CommissionAmount computes the platform cut, rounded to cents.
func CommissionAmount(total, ratePct decimal.Decimal) decimal.Decimal {
	return total.Mul(ratePct).Div(decimal.NewFromInt(100)).Round(2)
}

func ValidateCheckoutInput(in CheckoutInput) error {
	if in.BuyerID <= 0 {
		return &ValidationError{Field: "buyer_id", Reason: "required"}
	}
	if len(in.Lines) == 0 {
		return &ValidationError{Field: "items", Reason: "cart is empty"}
	}
	for _, l := range in.Lines {
		if l.ProductID <= 0 {
			return &ValidationError{Field: "items.product_id", Reason: "required"}
		}
		if l.Quantity <= 0 {
			return &ValidationError{Field: "items.quantity", Reason: "must be > 0"}
		}
	}
	if in.DeliveryAddress == "" {
		return &ValidationError{Field: "delivery_address", Reason: "required"}
	}
	if in.PaymentMethod != "" && in.PaymentMethod != "cod" {
		return &ValidationError{Field: "payment_method", Reason: "only cod is supported"}
	}
	return nil
}

// sortedLines returns the cart in ascending product-id order so concurrent
// checkouts lock product rows in the same order and cannot deadlock.
func sortedLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (c *Checkout) Place(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if err := ValidateCheckoutInput(in); err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "cod"
	}

	tx, err := c.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res := &CheckoutResult{TotalAmount: decimal.Zero}
	for _, line := range sortedLines(in.Lines) {
		p, err := catalog.LockForPurchase(ctx, tx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Status != catalog.ProductActive {
			return nil, &ProductUnavailableError{ProductID: p.ID, Status: string(p.Status)}
		}
		if p.StockQuantity < line.Quantity {
			return nil, &StockConflictError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   line.Quantity,
				Available:   p.StockQuantity,
			}
		}

		// Guarded decrement under the row lock: if it does not hit exactly
		// one row, stock would have gone negative.
		ok, err := catalog.DecrementStock(ctx, tx, p.ID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &StockConflictError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   line.Quantity,
				Available:   p.StockQuantity,
			}
		}

		total := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		commission := CommissionAmount(total, c.CommissionRate)
		orderNumber := NewOrderNumber()

		var orderID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (order_number, buyer_id, farmer_id, product_id, quantity,
			                    unit_price, total_amount, commission_rate, commission_amount,
			                    delivery_address, delivery_city, delivery_state, delivery_pincode,
			                    payment_method, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			RETURNING id`,
			orderNumber, in.BuyerID, p.FarmerID, p.ID, line.Quantity,
			p.Price, total, c.CommissionRate, commission,
			in.DeliveryAddress, in.DeliveryCity, in.DeliveryState, in.DeliveryPincode,
			in.PaymentMethod, StatusPlaced,
		).Scan(&orderID)
		if err != nil {
			return nil, err
		}

		res.Orders = append(res.Orders, PlacedOrder{
			OrderID:          orderID,
			OrderNumber:      orderNumber,
			ProductID:        p.ID,
			FarmerID:         p.FarmerID,
			Quantity:         line.Quantity,
			TotalAmount:      total,
			CommissionAmount: commission,
		})
		res.TotalAmount = res.TotalAmount.Add(total)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}
