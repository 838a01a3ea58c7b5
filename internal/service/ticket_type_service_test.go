package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cacheMocks "go-ticket-inventory/internal/cache/mocks"
	"go-ticket-inventory/internal/domain"
	publisherMocks "go-ticket-inventory/internal/publisher/mocks"
	repositoryMocks "go-ticket-inventory/internal/repository/mocks"
	"go-ticket-inventory/internal/service"
	apperrors "go-ticket-inventory/pkg/app_errors"
)

type serviceMocks struct {
	repository     *repositoryMocks.TicketTypeRepositoryMock
	inventoryCache *cacheMocks.InventoryCacheMock
	publisher      *publisherMocks.EventPublisherMock
}

func newService(t *testing.T) (service.TicketTypeService, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		repository:     repositoryMocks.NewTicketTypeRepositoryMock(),
		inventoryCache: cacheMocks.NewInventoryCacheMock(),
		publisher:      publisherMocks.NewEventPublisherMock(),
	}
	return service.NewTicketTypeService(nil, m.repository, m.inventoryCache, m.publisher), m
}

func validParams() domain.NewTicketTypeParams {
	return domain.NewTicketTypeParams{
		EventID:     uuid.New(),
		Name:        "Early Bird",
		Description: "Discounted tier",
		PriceAmount: 45.0,
		Currency:    "USD",
		Quantity:    100,
		SalesStart:  time.Now().Add(-time.Hour),
		SalesEnd:    time.Now().Add(24 * time.Hour),
	}
}

func reconstituted(t *testing.T, quantity, sold int) *domain.TicketType {
	t.Helper()
	restored := domain.ReconstituteTicketType(domain.TicketTypeState{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		Name:        "General Admission",
		Description: "Standing area",
		PriceAmount: 80.0,
		Currency:    "USD",
		Quantity:    quantity,
		Sold:        sold,
		SalesStart:  time.Now().Add(-time.Hour),
		SalesEnd:    time.Now().Add(24 * time.Hour),
		Active:      true,
		Version:     1,
		CreatedAt:   time.Now().Add(-48 * time.Hour),
		UpdatedAt:   time.Now().Add(-time.Hour),
	})
	require.True(t, restored.IsOk())
	return restored.Value()
}

func TestTicketTypeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)
		m.repository.On("Create", ctx, mock.AnythingOfType("*domain.TicketType")).Return(nil)
		m.inventoryCache.On("WarmUp", ctx, mock.AnythingOfType("uuid.UUID"), 100).Return(nil)

		ticketType, err := svc.Create(ctx, validParams())

		require.NoError(t, err)
		assert.Equal(t, "Early Bird", ticketType.Name())
		assert.Equal(t, 100, ticketType.Available())
		m.repository.AssertExpectations(t)
		m.inventoryCache.AssertExpectations(t)
	})

	t.Run("Failure - invalid input never reaches the repository", func(t *testing.T) {
		svc, m := newService(t)

		params := validParams()
		params.Quantity = 0
		_, err := svc.Create(ctx, params)

		assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
		m.repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Success - warm up failure does not fail creation", func(t *testing.T) {
		svc, m := newService(t)
		m.repository.On("Create", ctx, mock.AnythingOfType("*domain.TicketType")).Return(nil)
		m.inventoryCache.On("WarmUp", ctx, mock.AnythingOfType("uuid.UUID"), 100).
			Return(apperrors.ErrInternalServerError)

		_, err := svc.Create(ctx, validParams())
		assert.NoError(t, err)
	})
}

func TestTicketTypeService_UpdateName(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil)
		m.repository.On("Save", ctx, ticketType).Return(nil)
		m.publisher.On("PublishFromAggregate", ctx, ticketType).Return(nil)

		updated, err := svc.UpdateName(ctx, ticketType.ID(), "Renamed Tier")

		require.NoError(t, err)
		assert.Equal(t, "Renamed Tier", updated.Name())
		m.repository.AssertExpectations(t)
	})

	t.Run("Failure - not found", func(t *testing.T) {
		svc, m := newService(t)
		id := uuid.New()
		m.repository.On("FindByID", ctx, id).Return(nil, apperrors.ErrTicketTypeNotFound)

		_, err := svc.UpdateName(ctx, id, "Renamed Tier")

		assert.ErrorIs(t, err, apperrors.ErrTicketTypeNotFound)
		m.repository.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Failure - domain rejection is not saved", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)
		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil)

		_, err := svc.UpdateName(ctx, ticketType.ID(), "")

		assert.ErrorIs(t, err, apperrors.ErrMissingName)
		m.repository.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTicketTypeService_UpdateDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - both fields applied in one save", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil).Once()
		m.repository.On("Save", ctx, ticketType).Return(nil).Once()
		m.publisher.On("PublishFromAggregate", ctx, ticketType).Return(nil)

		name := "Renamed Tier"
		description := "Updated copy"
		updated, err := svc.UpdateDetails(ctx, ticketType.ID(), &name, &description)

		require.NoError(t, err)
		assert.Equal(t, "Renamed Tier", updated.Name())
		assert.Equal(t, "Updated copy", updated.Description())
		m.repository.AssertExpectations(t)
	})

	// 名稱有效、描述無效：整筆不存，不留半套狀態
	t.Run("Failure - one invalid field saves nothing", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)
		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil).Once()

		name := "New Name"
		description := strings.Repeat("x", 501)
		_, err := svc.UpdateDetails(ctx, ticketType.ID(), &name, &description)

		assert.ErrorIs(t, err, apperrors.ErrDescriptionTooLong)
		m.repository.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Success - nil fields are left untouched", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil).Once()
		m.repository.On("Save", ctx, ticketType).Return(nil).Once()
		m.publisher.On("PublishFromAggregate", ctx, ticketType).Return(nil)

		description := "Only the description"
		updated, err := svc.UpdateDetails(ctx, ticketType.ID(), nil, &description)

		require.NoError(t, err)
		assert.Equal(t, "General Admission", updated.Name())
		assert.Equal(t, "Only the description", updated.Description())
	})
}

func TestTicketTypeService_OptimisticRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - version conflict retried once", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil).Twice()
		m.repository.On("Save", ctx, ticketType).Return(apperrors.ErrConcurrentModification).Once()
		m.repository.On("Save", ctx, ticketType).Return(nil).Once()
		m.publisher.On("PublishFromAggregate", ctx, ticketType).Return(nil)

		_, err := svc.UpdateDescription(ctx, ticketType.ID(), "Updated copy")

		require.NoError(t, err)
		m.repository.AssertExpectations(t)
	})

	t.Run("Failure - conflict on both attempts surfaces as conflict", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil).Twice()
		m.repository.On("Save", ctx, ticketType).Return(apperrors.ErrConcurrentModification).Twice()

		_, err := svc.UpdateDescription(ctx, ticketType.ID(), "Updated copy")

		assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
		m.repository.AssertExpectations(t)
		m.publisher.AssertNotCalled(t, "PublishFromAggregate", mock.Anything, mock.Anything)
	})

	t.Run("Failure - other save errors are not retried", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil).Once()
		m.repository.On("Save", ctx, ticketType).Return(apperrors.ErrInternalServerError).Once()

		_, err := svc.UpdateDescription(ctx, ticketType.ID(), "Updated copy")

		assert.ErrorIs(t, err, apperrors.ErrInternalServerError)
		m.repository.AssertExpectations(t)
	})
}

func TestTicketTypeService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - cache is rewarmed with the new availability", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 30)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil)
		m.repository.On("Save", ctx, ticketType).Return(nil)
		m.publisher.On("PublishFromAggregate", ctx, ticketType).Return(nil)
		m.inventoryCache.On("WarmUp", ctx, ticketType.ID(), 120).Return(nil)

		updated, err := svc.UpdateQuantity(ctx, ticketType.ID(), 150)

		require.NoError(t, err)
		assert.Equal(t, 150, updated.Quantity())
		assert.Equal(t, 120, updated.Available())
		m.inventoryCache.AssertExpectations(t)
	})

	t.Run("Failure - reducing below demand is rejected", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 30)
		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil)

		_, err := svc.UpdateQuantity(ctx, ticketType.ID(), 20)

		assert.ErrorIs(t, err, apperrors.ErrCannotReduceQuantity)
		m.repository.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTicketTypeService_RecordSale(t *testing.T) {
	ctx := context.Background()

	// 閘門擋掉的請求不該碰資料庫
	t.Run("Failure - reservation denied skips the database", func(t *testing.T) {
		svc, m := newService(t)
		id := uuid.New()
		m.inventoryCache.On("Reserve", ctx, id, 5).Return(false, apperrors.ErrInsufficientAvailability)

		_, err := svc.RecordSale(ctx, id, 5)

		assert.ErrorIs(t, err, apperrors.ErrInsufficientAvailability)
		m.repository.AssertNotCalled(t, "FindByIDWithLock", mock.Anything, mock.Anything, mock.Anything)
	})

	// 非正數必須在閘門之前擋下：負數進了 DECRBY 會反向膨脹庫存
	t.Run("Failure - non-positive quantity never reaches the gate", func(t *testing.T) {
		svc, m := newService(t)
		id := uuid.New()

		for _, quantity := range []int{0, -5} {
			_, err := svc.RecordSale(ctx, id, quantity)
			assert.ErrorIs(t, err, apperrors.ErrNonPositiveDelta)

			_, err = svc.CancelSale(ctx, id, quantity)
			assert.ErrorIs(t, err, apperrors.ErrNonPositiveDelta)
		}
		m.inventoryCache.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
		m.inventoryCache.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - unknown ticket type at the gate", func(t *testing.T) {
		svc, m := newService(t)
		id := uuid.New()
		m.inventoryCache.On("Reserve", ctx, id, 1).Return(false, apperrors.ErrTicketTypeNotFound)

		_, err := svc.RecordSale(ctx, id, 1)

		assert.ErrorIs(t, err, apperrors.ErrTicketTypeNotFound)
	})
}

func TestTicketTypeService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - deactivate then reactivate", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 100, 0)

		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil)
		m.repository.On("Save", ctx, ticketType).Return(nil)
		m.publisher.On("PublishFromAggregate", ctx, ticketType).Return(nil)

		deactivated, err := svc.Deactivate(ctx, ticketType.ID())
		require.NoError(t, err)
		assert.False(t, deactivated.IsActive())

		reactivated, err := svc.Reactivate(ctx, ticketType.ID())
		require.NoError(t, err)
		assert.True(t, reactivated.IsActive())
	})

	t.Run("Failure - sold out cannot be reactivated", func(t *testing.T) {
		svc, m := newService(t)
		ticketType := reconstituted(t, 50, 50)
		m.repository.On("FindByID", ctx, ticketType.ID()).Return(ticketType, nil)

		_, err := svc.Reactivate(ctx, ticketType.ID())

		assert.ErrorIs(t, err, apperrors.ErrCannotReactivateSoldOut)
	})
}
