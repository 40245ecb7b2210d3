package pgdb

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

type OutboxEventRepo struct {
	pool *pgxpool.Pool
	conv converter.OutboxEventConverter
}

func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter) *OutboxEventRepo {
	return &OutboxEventRepo{
		pool: pool,
		conv: conv,
	}
}

// Create пишет событие в outbox и будит воркер через NOTIFY.
// Внутри транзакции уведомление доставляется только после коммита.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	q := tr.QuerierFromCtx(ctx, o.pool)

	model := o.conv.ToModel(event)
	query := `
		INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`

	if err := q.QueryRow(ctx, query,
		model.EventID,
		model.EventType,
		model.AggregateID,
		model.Payload,
		model.Status,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: event with id %s already exists", whereami.WhereAmI(), event.EventID)
		}

		return nil, fmt.Errorf("%s: failed to insert event: %w", whereami.WhereAmI(), err)
	}

	if _, err := q.Exec(ctx, "NOTIFY "+outboxChannel); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// GetAndMarkAsProcessing забирает пачку pending событий, а также события,
// застрявшие в processing дольше staleAfter.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int, staleAfter time.Duration) ([]*usecase.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NOW()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = $2
			   OR (status = $1 AND processing_started_at < NOW() - make_interval(secs => $3))
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_id, event_type, aggregate_id, payload, status, created_at, processing_started_at, processed_at
	`

	var models []*converter.OutboxEventModel
	err := pgx.BeginFunc(ctx, o.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query,
			string(usecase.Processing),
			string(usecase.Pending),
			staleAfter.Seconds(),
			limit,
		)
		if err != nil {
			return fmt.Errorf("failed to query pending events: %w", err)
		}

		models, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.OutboxEventModel])
		if err != nil {
			return fmt.Errorf("failed to scan events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}

func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = NOW()
		WHERE id = $2 AND status = $3
	`

	// 0 затронутых строк: событие уже обработано другим воркером
	if _, err := o.pool.Exec(ctx, query, string(usecase.Processed), id, string(usecase.Processing)); err != nil {
		return fmt.Errorf("%s: failed to mark event %d as processed: %w", whereami.WhereAmI(), id, err)
	}

	return nil
}

// MarkAsPending возвращает событие в очередь после неудачной отправки.
func (o *OutboxEventRepo) MarkAsPending(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL
		WHERE id = $2 AND status = $3
	`

	if _, err := o.pool.Exec(ctx, query, string(usecase.Pending), id, string(usecase.Processing)); err != nil {
		return fmt.Errorf("%s: failed to return event %d to pending: %w", whereami.WhereAmI(), id, err)
	}

	return nil
}
