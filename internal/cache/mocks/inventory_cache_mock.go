package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type InventoryCacheMock struct {
	mock.Mock
}

func NewInventoryCacheMock() *InventoryCacheMock {
	return &InventoryCacheMock{}
}

func (m *InventoryCacheMock) WarmUp(ctx context.Context, ticketTypeID uuid.UUID, available int) error {
	args := m.Called(ctx, ticketTypeID, available)
	return args.Error(0)
}

func (m *InventoryCacheMock) GetAvailable(ctx context.Context, ticketTypeID uuid.UUID) (int, error) {
	args := m.Called(ctx, ticketTypeID)
	return args.Int(0), args.Error(1)
}

func (m *InventoryCacheMock) Reserve(ctx context.Context, ticketTypeID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, ticketTypeID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryCacheMock) Release(ctx context.Context, ticketTypeID uuid.UUID, quantity int) error {
	args := m.Called(ctx, ticketTypeID, quantity)
	return args.Error(0)
}
