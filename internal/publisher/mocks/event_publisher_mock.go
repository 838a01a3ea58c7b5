package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-ticket-inventory/internal/domain"
)

type EventPublisherMock struct {
	mock.Mock
}

func NewEventPublisherMock() *EventPublisherMock {
	return &EventPublisherMock{}
}

func (m *EventPublisherMock) Publish(ctx context.Context, event domain.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventPublisherMock) PublishMany(ctx context.Context, events []domain.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *EventPublisherMock) PublishFromAggregate(ctx context.Context, source domain.EventSource) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}
