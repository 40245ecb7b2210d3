package pgdb

import (
	"context"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// PurchaseRepo читает покупки, которые записывает сервис заказов.
type PurchaseRepo struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepo(pool *pgxpool.Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

// HasPurchased сообщает, есть ли у пользователя покупка товара без возврата.
func (r *PurchaseRepo) HasPurchased(ctx context.Context, userID string, productID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM purchases
			WHERE user_id = $1 AND product_id = $2 AND NOT refunded
		)
	`

	var ok bool
	if err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&ok); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ok, nil
}
