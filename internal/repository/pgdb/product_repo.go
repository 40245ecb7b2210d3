package pgdb

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `id, title, slug, description, price, image_path, featured, active, is_digital, created_at`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет товар. Занятый slug возвращает e.ErrSlugConflict.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (title, slug, description, price, image_path, featured, active, is_digital)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at;
	`

	if err := q.QueryRow(ctx, query,
		model.Title,
		model.Slug,
		model.Description,
		model.Price,
		model.ImagePath,
		model.Featured,
		model.Active,
		model.IsDigital,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSlugConflict)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// GetBySlug возвращает товар по slug независимо от активности.
func (p *ProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.ProductModel])
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(slug, e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// ListActive возвращает активные товары, новые первыми; featuredOnly оставляет только рекомендуемые.
func (p *ProductRepo) ListActive(ctx context.Context, featuredOnly bool) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE active AND (NOT $1 OR featured)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := p.pool.Query(ctx, query, featuredOnly)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}
