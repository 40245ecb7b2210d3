package pgdb

import (
	"errors"

	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolationCode = "23505"
	outboxChannel       = "outbox_pending"
)

var _ tr.Querier = (*pgxpool.Pool)(nil)

// postgresDuplicate сообщает, нарушено ли ограничение уникальности.
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// notFound сообщает, что запрос не вернул ни одной строки.
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
