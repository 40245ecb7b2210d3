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

const productFileColumns = `id, product_id, name, file_path, storage, free, user_required, created_at`

// ProductFileRepo реализует репозиторий файлов товаров поверх PostgreSQL.
type ProductFileRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductFileConverter
}

func NewProductFileRepo(pool *pgxpool.Pool, conv converter.ProductFileConverter) *ProductFileRepo {
	return &ProductFileRepo{
		pool: pool,
		conv: conv,
	}
}

func (r *ProductFileRepo) Create(ctx context.Context, file *domain.ProductFile) (*domain.ProductFile, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	model := r.conv.ToModel(file)
	// id из ReserveID или, если он не задан, из последовательности
	query := `
		INSERT INTO product_files (id, product_id, name, file_path, storage, free, user_required)
		VALUES (COALESCE($1, nextval(pg_get_serial_sequence('product_files', 'id'))), $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`

	var id *int64
	if model.ID > 0 {
		id = &model.ID
	}

	if err := q.QueryRow(ctx, query,
		id,
		model.ProductID,
		model.Name,
		model.FilePath,
		model.Storage,
		model.Free,
		model.UserRequired,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(model), nil
}

// ReserveID выдаёт следующий id из последовательности product_files.
// Выданный id не повторяется, даже если запись так и не будет создана.
func (r *ProductFileRepo) ReserveID(ctx context.Context) (int64, error) {
	q := tr.QuerierFromCtx(ctx, r.pool)

	var next int64
	if err := q.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('product_files', 'id'))`).Scan(&next); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return next, nil
}

func (r *ProductFileRepo) GetByID(ctx context.Context, id int64) (*domain.ProductFile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productFileColumns+` FROM product_files WHERE id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.ProductFileModel])
	if err != nil {
		if notFound(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductFileNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(model), nil
}

func (r *ProductFileRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductFile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productFileColumns+` FROM product_files WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.ProductFileModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToArrEntity(models), nil
}
