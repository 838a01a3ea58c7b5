package publisher

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"go-ticket-inventory/internal/outbox"
	"go-ticket-inventory/pkg/logger"
)

// Subscriber 處理一筆已入庫的事實；回傳錯誤代表本次投遞失敗
type Subscriber func(ctx context.Context, record *outbox.Record) error

// Dispatcher routes facts to subscribers keyed by fact name. Registration is
// expected at startup but stays safe under concurrent use.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[string][]Subscriber
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[string][]Subscriber),
	}
}

func (d *Dispatcher) Register(eventName string, subscriber Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[eventName] = append(d.subscribers[eventName], subscriber)
}

// Dispatch calls every subscriber for the record's fact name sequentially.
// All subscribers run even when one fails; the first error is returned so the
// record stays unpublished and gets redelivered.
func (d *Dispatcher) Dispatch(ctx context.Context, record *outbox.Record) error {
	d.mu.RLock()
	subscribers := d.subscribers[record.EventName]
	d.mu.RUnlock()

	log := logger.WithComponent("dispatcher")

	if len(subscribers) == 0 {
		log.Warn("no subscribers for event",
			zap.String("event_name", record.EventName),
			zap.String("event_id", record.EventID.String()),
		)
		return nil
	}

	var firstErr error
	for _, subscriber := range subscribers {
		if err := subscriber(ctx, record); err != nil {
			log.Error("subscriber failed",
				zap.String("event_name", record.EventName),
				zap.String("event_id", record.EventID.String()),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("subscriber for %s: %w", record.EventName, err)
			}
		}
	}

	return firstErr
}
