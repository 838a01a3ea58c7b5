package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"go-ticket-inventory/internal/cache"
	"go-ticket-inventory/internal/domain"
	"go-ticket-inventory/internal/publisher"
	"go-ticket-inventory/internal/repository"
	apperrors "go-ticket-inventory/pkg/app_errors"
	"go-ticket-inventory/pkg/logger"
	"go-ticket-inventory/pkg/outcome"
)

type TicketTypeService interface {
	Create(ctx context.Context, params domain.NewTicketTypeParams) (*domain.TicketType, error)
	List(ctx context.Context) ([]*domain.TicketType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.TicketType, error)
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*domain.TicketType, error)
	// UpdateDetails 一次套用名稱與描述：任一欄位驗證失敗就整筆不存
	UpdateDetails(ctx context.Context, id uuid.UUID, name, description *string) (*domain.TicketType, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, amount float64, currency string) (*domain.TicketType, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error)
	UpdateSalesPeriod(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time) (*domain.TicketType, error)
	// RecordSale 記錄售出：先過 Redis 閘門，再進資料庫交易
	RecordSale(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error)
	// CancelSale 取消售出，歸還可售數量
	CancelSale(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error)
}

type TicketTypeServiceImpl struct {
	pool           *pgxpool.Pool
	repository     repository.TicketTypeRepository
	inventoryCache cache.InventoryCache
	publisher      publisher.EventPublisher
}

func NewTicketTypeService(
	pool *pgxpool.Pool,
	ticketTypeRepository repository.TicketTypeRepository,
	inventoryCache cache.InventoryCache,
	eventPublisher publisher.EventPublisher,
) TicketTypeService {
	return &TicketTypeServiceImpl{
		pool:           pool,
		repository:     ticketTypeRepository,
		inventoryCache: inventoryCache,
		publisher:      eventPublisher,
	}
}

func (s *TicketTypeServiceImpl) Create(ctx context.Context, params domain.NewTicketTypeParams) (*domain.TicketType, error) {
	created := domain.NewTicketType(params)
	if created.IsErr() {
		return nil, created.Error()
	}

	ticketType := created.Value()
	if err := s.repository.Create(ctx, ticketType); err != nil {
		return nil, err
	}

	// 預熱可售數量；失敗不影響建立，之後可重新預熱
	if err := s.inventoryCache.WarmUp(ctx, ticketType.ID(), ticketType.Available()); err != nil {
		logger.WithComponent("service").Warn("warm up inventory failed",
			zap.String("ticket_type_id", ticketType.ID().String()), zap.Error(err))
	}

	return ticketType, nil
}

func (s *TicketTypeServiceImpl) List(ctx context.Context) ([]*domain.TicketType, error) {
	return s.repository.List(ctx)
}

func (s *TicketTypeServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *TicketTypeServiceImpl) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.TicketType, error) {
	return s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		return t.UpdateName(name)
	})
}

func (s *TicketTypeServiceImpl) UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*domain.TicketType, error) {
	return s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		return t.UpdateDescription(description)
	})
}

func (s *TicketTypeServiceImpl) UpdateDetails(ctx context.Context, id uuid.UUID, name, description *string) (*domain.TicketType, error) {
	return s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		if name != nil {
			if renamed := t.UpdateName(*name); renamed.IsErr() {
				return renamed
			}
		}
		if description != nil {
			if described := t.UpdateDescription(*description); described.IsErr() {
				return described
			}
		}
		return outcome.Ok(t)
	})
}

func (s *TicketTypeServiceImpl) UpdatePrice(ctx context.Context, id uuid.UUID, amount float64, currency string) (*domain.TicketType, error) {
	return s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		return t.UpdatePrice(amount, currency)
	})
}

func (s *TicketTypeServiceImpl) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error) {
	ticketType, err := s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		return t.UpdateQuantity(quantity)
	})
	if err != nil {
		return nil, err
	}

	// 數量變了，重新預熱可售數量
	if err := s.inventoryCache.WarmUp(ctx, ticketType.ID(), ticketType.Available()); err != nil {
		logger.WithComponent("service").Warn("warm up inventory failed",
			zap.String("ticket_type_id", ticketType.ID().String()), zap.Error(err))
	}

	return ticketType, nil
}

func (s *TicketTypeServiceImpl) UpdateSalesPeriod(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time) (*domain.TicketType, error) {
	return s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		return t.UpdateSalesPeriod(startsAt, endsAt)
	})
}

func (s *TicketTypeServiceImpl) RecordSale(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error) {
	// 非正數不能進閘門：負數會讓 DECRBY 反向加庫存
	if quantity <= 0 {
		return nil, apperrors.ErrNonPositiveDelta
	}

	// 1. Redis 閘門先擋掉註定失敗的請求
	reserved, err := s.inventoryCache.Reserve(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, errors.New("unexpected reserve result")
	}

	ticketType, err := s.recordSaleTx(ctx, id, quantity)
	if err != nil {
		// 交易失敗，歸還預留；用 context.Background() 確保一定執行
		if releaseErr := s.inventoryCache.Release(context.Background(), id, quantity); releaseErr != nil {
			logger.WithComponent("service").Error("release reservation failed",
				zap.String("ticket_type_id", id.String()), zap.Error(releaseErr))
		}
		return nil, err
	}

	s.publishQueuedFacts(ctx, ticketType)

	return ticketType, nil
}

func (s *TicketTypeServiceImpl) recordSaleTx(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticketType, err := s.repository.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	incremented := ticketType.IncrementSold(quantity)
	if incremented.IsErr() {
		return nil, incremented.Error()
	}

	if err := s.repository.SaveWithTx(ctx, tx, ticketType); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return ticketType, nil
}

func (s *TicketTypeServiceImpl) CancelSale(ctx context.Context, id uuid.UUID, quantity int) (*domain.TicketType, error) {
	if quantity <= 0 {
		return nil, apperrors.ErrNonPositiveDelta
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticketType, err := s.repository.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	decremented := ticketType.DecrementSold(quantity)
	if decremented.IsErr() {
		return nil, decremented.Error()
	}

	if err := s.repository.SaveWithTx(ctx, tx, ticketType); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// 取消成功，歸還可售數量
	if releaseErr := s.inventoryCache.Release(context.Background(), id, quantity); releaseErr != nil {
		logger.WithComponent("service").Error("release availability failed",
			zap.String("ticket_type_id", id.String()), zap.Error(releaseErr))
	}

	return ticketType, nil
}

func (s *TicketTypeServiceImpl) Deactivate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	return s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		return t.Deactivate()
	})
}

func (s *TicketTypeServiceImpl) Reactivate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	return s.mutate(ctx, id, func(t *domain.TicketType) outcome.Outcome[*domain.TicketType] {
		return t.Reactivate()
	})
}

// mutate 載入聚合、套用變更、帶版本檢查儲存。
// 樂觀鎖衝突時重讀重套一次，再失敗就把 ErrConcurrentModification 交給呼叫端。
func (s *TicketTypeServiceImpl) mutate(
	ctx context.Context,
	id uuid.UUID,
	apply func(*domain.TicketType) outcome.Outcome[*domain.TicketType],
) (*domain.TicketType, error) {
	const attempts = 2

	var lastErr error
	for i := 0; i < attempts; i++ {
		ticketType, err := s.repository.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		applied := apply(ticketType)
		if applied.IsErr() {
			return nil, applied.Error()
		}

		err = s.repository.Save(ctx, ticketType)
		if err == nil {
			s.publishQueuedFacts(ctx, ticketType)
			return ticketType, nil
		}
		if !errors.Is(err, apperrors.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// publishQueuedFacts hands the drained facts to the publisher after the state
// change is committed. A dispatch failure is not a failure of the mutation:
// the fact is durably stored and the sweep will redeliver it.
func (s *TicketTypeServiceImpl) publishQueuedFacts(ctx context.Context, ticketType *domain.TicketType) {
	if err := s.publisher.PublishFromAggregate(ctx, ticketType); err != nil {
		logger.WithComponent("service").Error("publish queued facts failed",
			zap.String("ticket_type_id", ticketType.ID().String()), zap.Error(err))
	}
}
