package kafka

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	outboxChannel     = "outbox_pending"
	notifyWaitTimeout = 30 * time.Second
	reconnectBase     = 2 * time.Second
	reconnectMax      = time.Minute
)

type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	cfg       *cfg.OutboxCfg
	dbConnStr string
	cancel    context.CancelFunc
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	cfg *cfg.OutboxCfg,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		cfg:       cfg,
		dbConnStr: dbConnStr,
		cancel:    func() {},
	}
}

// Start запускает периодический опрос outbox и слушатель LISTEN/NOTIFY.
func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	// Запускаем слушатель уведомлений
	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает воркер и ждёт завершения горутин.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
	})
}

func (w *OutboxWorker) run(ctx context.Context) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	// Опрос страхует от пропущенных уведомлений и зависших в processing событий
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		conn, err := w.connect(ctx)
		if err == nil {
			attempt = 0
			err = w.waitNotifications(ctx, conn)
			conn.Close(context.Background())
		}

		if ctx.Err() != nil {
			return
		}

		delay := jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)
		w.logger.Warnf("Outbox listener connection lost: %v. Reconnecting in %v", err, delay)
		if jitter.Sleep(ctx, delay) != nil {
			return
		}
	}
}

func (w *OutboxWorker) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, w.dbConnStr)
	if err != nil {
		return nil, e.Wrap("failed to connect for LISTEN", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
		conn.Close(ctx)
		return nil, e.Wrap("failed to LISTEN", err)
	}

	w.logger.Infof("Subscribed to '%s' channel", outboxChannel)
	return conn, nil
}

// waitNotifications обрабатывает уведомления до ошибки соединения или отмены контекста.
func (w *OutboxWorker) waitNotifications(ctx context.Context, conn *pgx.Conn) error {
	for {
		waitCtx, cancel := context.WithTimeout(ctx, notifyWaitTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return err
		}

		if notif.Channel == outboxChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// drain обрабатывает пачки, пока в outbox остаются события.
func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.cfg.BatchSize, w.cfg.StaleAfter)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	failed := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			failed++
			w.logger.Warnf("event %s (%s) not sent: %v", event.EventID, event.EventType, err)
			// возвращаем в очередь, чтобы не ждать reclaim по таймауту
			if err := w.repo.MarkAsPending(ctx, event.ID); err != nil {
				w.logger.Warnf("mark pending failed: %v", err)
			}
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	// Если Kafka недоступна, не крутим цикл до следующего тика
	if failed == len(events) {
		return false, nil
	}

	return len(events) == w.cfg.BatchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	req := usecase.NewWriteRawMessageReq(
		strconv.FormatInt(event.AggregateID, 10),
		event.EventID,
		string(event.EventType),
		event.Payload,
	)

	if err := w.producer.WriteRawMessage(ctx, req); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}
	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
