package pgdb

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

type ContactRepo struct {
	pool *pgxpool.Pool
	conv converter.ContactMessageConverter
}

func NewContactRepo(pool *pgxpool.Pool, conv converter.ContactMessageConverter) *ContactRepo {
	return &ContactRepo{pool: pool, conv: conv}
}

func (c *ContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	model := c.conv.ToModel(msg)
	query := `
		INSERT INTO contact_messages (fullname, email, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`

	if err := q.QueryRow(ctx, query, model.FullName, model.Email, model.Content).
		Scan(&model.ID, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}
