// Package catalog is the product store: read access for checkout validation
// and browsing, plus the atomic stock mutations the order core runs inside
// its own transactions.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

type Product struct {
	ID            int64           `json:"id"`
	FarmerID      int64           `json:"farmer_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Status        ProductStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

var ErrProductNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, farmer_id, name, unit, price, stock_quantity, status, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.FarmerID, &p.Name, &p.Unit, &p.Price, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListActive(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, farmer_id, name, unit, price, stock_quantity, status, created_at, updated_at
		FROM products WHERE status='active' ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.FarmerID, &p.Name, &p.Unit, &p.Price, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LockForPurchase reads a product row FOR UPDATE so the caller's transaction
// holds the row lock until commit. Returns ErrProductNotFound for unknown ids.
func LockForPurchase(ctx context.Context, tx pgx.Tx, productID int64) (*Product, error) {
	var p Product
	err := tx.QueryRow(ctx, `
		SELECT id, farmer_id, name, unit, price, stock_quantity, status
		FROM products WHERE id=$1 FOR UPDATE`, productID).
		Scan(&p.ID, &p.FarmerID, &p.Name, &p.Unit, &p.Price, &p.StockQuantity, &p.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock is the conditional decrement: it refuses to take stock below
// zero even if the caller's earlier read was stale. Returns false when the
// guard failed and no row changed. A product drained to zero flips to
// out_of_stock in the same statement.
func DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, qty int) (bool, error) {
	ct, err := tx.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2,
		    status = CASE WHEN stock_quantity - $2 = 0 THEN 'out_of_stock' ELSE status END,
		    updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2`, productID, qty)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// RestoreStock puts quantity back after a cancellation and reactivates a
// product that had been flipped to out_of_stock.
func RestoreStock(ctx context.Context, tx pgx.Tx, productID int64, qty int) error {
	_, err := tx.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2,
		    status = CASE WHEN status = 'out_of_stock' THEN 'active' ELSE status END,
		    updated_at = now()
		WHERE id = $1`, productID, qty)
	return err
}
