// Package publisher turns aggregate-level facts into durably delivered
// notifications: persist first, dispatch second, mark published last.
package publisher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go-ticket-inventory/internal/domain"
	"go-ticket-inventory/internal/outbox"
	"go-ticket-inventory/pkg/logger"
)

type EventPublisher interface {
	// Publish stores the fact, dispatches it, then marks it published.
	// A store failure aborts before any dispatch: no fact is ever dispatched
	// without being durably recorded first.
	Publish(ctx context.Context, event domain.DomainEvent) error
	// PublishMany publishes sequentially in the given order so facts from one
	// aggregate transition keep their ordering.
	PublishMany(ctx context.Context, events []domain.DomainEvent) error
	// PublishFromAggregate drains the aggregate's queued facts and publishes
	// them via PublishMany.
	PublishFromAggregate(ctx context.Context, source domain.EventSource) error
}

type EventPublisherImpl struct {
	store      outbox.Store
	dispatcher *Dispatcher
}

func NewEventPublisher(store outbox.Store, dispatcher *Dispatcher) EventPublisher {
	return &EventPublisherImpl{
		store:      store,
		dispatcher: dispatcher,
	}
}

func (p *EventPublisherImpl) Publish(ctx context.Context, event domain.DomainEvent) error {
	log := logger.WithComponent("publisher").With(
		zap.String("event_name", event.EventName()),
		zap.String("event_id", event.EventID().String()),
	)

	// 1. store-then-publish：先落庫，失敗就中止
	if err := p.store.Store(ctx, event); err != nil {
		log.Error("store event failed", zap.Error(err))
		return fmt.Errorf("store event %s: %w", event.EventID(), err)
	}

	record := &outbox.Record{
		EventID:    event.EventID(),
		EventName:  event.EventName(),
		Payload:    event.Payload(),
		OccurredAt: event.OccurredAt(),
	}

	// 2. 投遞失敗只記 retry，不標記已發布；留給 sweep 重送
	if err := p.dispatcher.Dispatch(ctx, record); err != nil {
		if retryErr := p.store.IncrementRetry(ctx, event.EventID()); retryErr != nil {
			log.Error("increment retry failed", zap.Error(retryErr))
		}
		return fmt.Errorf("dispatch event %s: %w", event.EventID(), err)
	}

	// 3. 投遞成功才標記已發布
	if err := p.store.MarkPublished(ctx, event.EventID()); err != nil {
		// 記錄仍是未發布狀態，sweep 會重送；至多一次重複投遞
		log.Error("mark published failed", zap.Error(err))
		return fmt.Errorf("mark published %s: %w", event.EventID(), err)
	}

	log.Info("event published")
	return nil
}

func (p *EventPublisherImpl) PublishMany(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (p *EventPublisherImpl) PublishFromAggregate(ctx context.Context, source domain.EventSource) error {
	return p.PublishMany(ctx, source.TakeQueuedEvents())
}
