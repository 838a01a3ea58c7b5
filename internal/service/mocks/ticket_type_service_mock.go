package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"go-ticket-inventory/internal/domain"
)

type TicketTypeServiceMock struct {
	mock.Mock
}

func NewTicketTypeServiceMock() *TicketTypeServiceMock {
	return &TicketTypeServiceMock{}
}

func (m *TicketTypeServiceMock) Create(ctx context.Context, params domain.NewTicketTypeParams) (*domain.TicketType, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) List(ctx context.Context) ([]*domain.TicketType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.TicketType, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*domain.TicketType, error) {
	args := m.Called(ctx, id, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) UpdateDetails(ctx context.Context, id uuid.UUID, name, description *string) (*domain.TicketType, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) UpdatePrice(ctx context.Context, id uuid.UUID, amount float64, currency string) (*domain.TicketType, error) {
	args := m.Called(ctx, id, amount, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) UpdateSalesPeriod(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time) (*domain.TicketType, error) {
	args := m.Called(ctx, id, startsAt, endsAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) RecordSale(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) CancelSale(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) Deactivate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeServiceMock) Reactivate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}
