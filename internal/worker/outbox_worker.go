package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-ticket-inventory/internal/outbox"
	"go-ticket-inventory/internal/publisher"
	"go-ticket-inventory/pkg/logger"
)

// OutboxWorker 定期掃描未發布的事實並重送。
// 投遞成功才標記已發布；失敗就累加 retry，達上限後由 Unpublished 排除。
type OutboxWorker struct {
	store      outbox.Store
	dispatcher *publisher.Dispatcher
	interval   time.Duration
	batchSize  int
	retention  time.Duration
	wg         sync.WaitGroup
	quit       chan struct{}
}

// retention <= 0 disables pruning of published records.
func NewOutboxWorker(store outbox.Store, dispatcher *publisher.Dispatcher, interval time.Duration, batchSize int, retention time.Duration) *OutboxWorker {
	return &OutboxWorker{
		store:      store,
		dispatcher: dispatcher,
		interval:   interval,
		batchSize:  batchSize,
		retention:  retention,
		quit:       make(chan struct{}),
	}
}

// Start begins the sweep loop in its own goroutine.
func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		log := logger.WithComponent("outbox_worker")
		log.Info("outbox sweep started", zap.Duration("interval", w.interval))

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.Sweep(ctx)
			case <-w.quit:
				log.Info("outbox sweep shutting down")
				return
			case <-ctx.Done():
				log.Info("context cancelled, outbox sweep shutting down")
				return
			}
		}
	}()
}

// Sweep runs one redelivery pass. Exported so tests and admin endpoints can
// trigger a pass without waiting for the ticker.
func (w *OutboxWorker) Sweep(ctx context.Context) {
	log := logger.WithComponent("outbox_worker")

	records, err := w.store.Unpublished(ctx, w.batchSize)
	if err != nil {
		log.Error("fetch unpublished facts failed", zap.Error(err))
		return
	}

	for _, record := range records {
		if err := w.dispatcher.Dispatch(ctx, record); err != nil {
			log.Warn("redelivery failed",
				zap.String("event_id", record.EventID.String()),
				zap.Int("retry_count", record.RetryCount),
				zap.Error(err),
			)
			if retryErr := w.store.IncrementRetry(ctx, record.EventID); retryErr != nil {
				log.Error("increment retry failed", zap.Error(retryErr))
			}
			continue
		}
		if err := w.store.MarkPublished(ctx, record.EventID); err != nil {
			log.Error("mark published failed",
				zap.String("event_id", record.EventID.String()),
				zap.Error(err),
			)
		}
	}

	if w.retention > 0 {
		pruned, err := w.store.PrunePublished(ctx, time.Now().UTC().Add(-w.retention))
		if err != nil {
			log.Error("prune published facts failed", zap.Error(err))
		} else if pruned > 0 {
			log.Info("pruned published facts", zap.Int64("count", pruned))
		}
	}
}

// Stop gracefully stops the sweep loop.
func (w *OutboxWorker) Stop() {
	close(w.quit)
	w.wg.Wait()
}
