package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"go-ticket-inventory/internal/domain"
)

type TicketTypeRepositoryMock struct {
	mock.Mock
}

func NewTicketTypeRepositoryMock() *TicketTypeRepositoryMock {
	return &TicketTypeRepositoryMock{}
}

func (m *TicketTypeRepositoryMock) Create(ctx context.Context, ticketType *domain.TicketType) error {
	args := m.Called(ctx, ticketType)
	return args.Error(0)
}

func (m *TicketTypeRepositoryMock) List(ctx context.Context) ([]*domain.TicketType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TicketType), args.Error(1)
}

func (m *TicketTypeRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeRepositoryMock) Save(ctx context.Context, ticketType *domain.TicketType) error {
	args := m.Called(ctx, ticketType)
	return args.Error(0)
}

func (m *TicketTypeRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TicketType, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

func (m *TicketTypeRepositoryMock) SaveWithTx(ctx context.Context, tx pgx.Tx, ticketType *domain.TicketType) error {
	args := m.Called(ctx, tx, ticketType)
	return args.Error(0)
}
