package publisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-ticket-inventory/internal/domain"
	"go-ticket-inventory/internal/outbox"
	outboxMocks "go-ticket-inventory/internal/outbox/mocks"
	"go-ticket-inventory/internal/publisher"
)

func newSoldOutEvent() *domain.TicketSoldOutEvent {
	return domain.NewTicketSoldOutEvent(uuid.New(), uuid.New(), "GA", 200)
}

func timeNowMinusHour() time.Time { return time.Now().Add(-time.Hour) }
func timeNowPlusDay() time.Time   { return time.Now().Add(24 * time.Hour) }

func TestEventPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - store then dispatch then mark published", func(t *testing.T) {
		store := outbox.NewMemoryStore(3)
		dispatcher := publisher.NewDispatcher()

		var delivered []*outbox.Record
		dispatcher.Register(domain.EventTicketTypeSoldOut, func(_ context.Context, record *outbox.Record) error {
			// 投遞時事實必須已經入庫
			stored, err := store.FindByName(ctx, domain.EventTicketTypeSoldOut)
			require.NoError(t, err)
			require.Len(t, stored, 1)
			delivered = append(delivered, record)
			return nil
		})

		eventPublisher := publisher.NewEventPublisher(store, dispatcher)
		event := newSoldOutEvent()
		require.NoError(t, eventPublisher.Publish(ctx, event))

		require.Len(t, delivered, 1)
		assert.Equal(t, event.EventID(), delivered[0].EventID)

		records, err := store.FindByName(ctx, domain.EventTicketTypeSoldOut)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.NotNil(t, records[0].PublishedAt)
	})

	t.Run("Failed - store failure aborts before dispatch", func(t *testing.T) {
		store := outboxMocks.NewStoreMock()
		dispatcher := publisher.NewDispatcher()

		dispatched := false
		dispatcher.Register(domain.EventTicketTypeSoldOut, func(context.Context, *outbox.Record) error {
			dispatched = true
			return nil
		})

		store.On("Store", ctx, mock.Anything).Return(errors.New("storage unreachable")).Once()

		eventPublisher := publisher.NewEventPublisher(store, dispatcher)
		err := eventPublisher.Publish(ctx, newSoldOutEvent())

		require.Error(t, err)
		assert.False(t, dispatched)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything)
	})

	t.Run("Failed - dispatch failure leaves fact unpublished", func(t *testing.T) {
		store := outbox.NewMemoryStore(3)
		dispatcher := publisher.NewDispatcher()
		dispatcher.Register(domain.EventTicketTypeSoldOut, func(context.Context, *outbox.Record) error {
			return errors.New("subscriber down")
		})

		eventPublisher := publisher.NewEventPublisher(store, dispatcher)
		event := newSoldOutEvent()
		err := eventPublisher.Publish(ctx, event)
		require.Error(t, err)

		records, err := store.Unpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].PublishedAt)
		assert.Equal(t, 1, records[0].RetryCount)
	})

	t.Run("no subscribers still marks published", func(t *testing.T) {
		store := outbox.NewMemoryStore(3)
		eventPublisher := publisher.NewEventPublisher(store, publisher.NewDispatcher())

		require.NoError(t, eventPublisher.Publish(ctx, newSoldOutEvent()))

		records, err := store.Unpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestEventPublisher_PublishMany(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers in caller order and marks all published", func(t *testing.T) {
		store := outbox.NewMemoryStore(3)
		dispatcher := publisher.NewDispatcher()

		var order []uuid.UUID
		dispatcher.Register(domain.EventTicketTypeSoldOut, func(_ context.Context, record *outbox.Record) error {
			order = append(order, record.EventID)
			return nil
		})

		eventPublisher := publisher.NewEventPublisher(store, dispatcher)
		first := newSoldOutEvent()
		second := newSoldOutEvent()
		third := newSoldOutEvent()
		events := []domain.DomainEvent{first, second, third}
		require.NoError(t, eventPublisher.PublishMany(ctx, events))

		assert.Equal(t, []uuid.UUID{first.EventID(), second.EventID(), third.EventID()}, order)

		records, err := store.FindByName(ctx, domain.EventTicketTypeSoldOut)
		require.NoError(t, err)
		require.Len(t, records, 3)
		for _, record := range records {
			assert.NotNil(t, record.PublishedAt)
		}
		assert.True(t, !records[1].OccurredAt.Before(records[0].OccurredAt))
		assert.True(t, !records[2].OccurredAt.Before(records[1].OccurredAt))
	})

	t.Run("stops at first failure", func(t *testing.T) {
		store := outboxMocks.NewStoreMock()
		eventPublisher := publisher.NewEventPublisher(store, publisher.NewDispatcher())

		first := newSoldOutEvent()
		second := newSoldOutEvent()

		store.On("Store", ctx, first).Return(nil).Once()
		store.On("MarkPublished", ctx, first.EventID()).Return(nil).Once()
		store.On("Store", ctx, second).Return(errors.New("storage unreachable")).Once()

		err := eventPublisher.PublishMany(ctx, []domain.DomainEvent{first, second})
		require.Error(t, err)
		store.AssertExpectations(t)
	})
}

func TestEventPublisher_PublishFromAggregate(t *testing.T) {
	ctx := context.Background()
	store := outbox.NewMemoryStore(3)
	dispatcher := publisher.NewDispatcher()
	eventPublisher := publisher.NewEventPublisher(store, dispatcher)

	params := domain.NewTicketTypeParams{
		EventID:     uuid.New(),
		Name:        "GA",
		PriceAmount: 50,
		Currency:    "TWD",
		Quantity:    2,
		SalesStart:  timeNowMinusHour(),
		SalesEnd:    timeNowPlusDay(),
	}
	created := domain.NewTicketType(params)
	require.True(t, created.IsOk())
	ticketType := created.Value()
	require.True(t, ticketType.IncrementSold(2).IsOk())

	require.NoError(t, eventPublisher.PublishFromAggregate(ctx, ticketType))

	records, err := store.FindByName(ctx, domain.EventTicketTypeSoldOut)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// 聚合已被汲取，再發布一次不會重複
	require.NoError(t, eventPublisher.PublishFromAggregate(ctx, ticketType))
	records, err = store.FindByName(ctx, domain.EventTicketTypeSoldOut)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
