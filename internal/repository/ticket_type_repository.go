package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-ticket-inventory/internal/domain"
	apperrors "go-ticket-inventory/pkg/app_errors"
)

type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *domain.TicketType) error
	List(ctx context.Context) ([]*domain.TicketType, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error)
	// Save persists the aggregate with an optimistic version check: the row
	// version must still match what was read, otherwise the save fails with
	// ErrConcurrentModification and the caller retries at the use-case level.
	Save(ctx context.Context, ticketType *domain.TicketType) error

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TicketType, error)
	SaveWithTx(ctx context.Context, tx pgx.Tx, ticketType *domain.TicketType) error
}

type TicketTypeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &TicketTypeRepositoryImpl{
		pool: pool,
	}
}

const ticketTypeColumns = `id, event_id, name, description, price_amount, currency,
		quantity, sold_quantity, sales_start, sales_end, is_active, version,
		created_at, updated_at`

func (r *TicketTypeRepositoryImpl) Create(ctx context.Context, ticketType *domain.TicketType) error {
	state := ticketType.State()

	query := `
		INSERT INTO ticket_types (
		id, event_id, name, description, price_amount, currency,
		quantity, sold_quantity, sales_start, sales_end, is_active, version,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		state.ID, state.EventID, state.Name, state.Description,
		state.PriceAmount, state.Currency, state.Quantity, state.Sold,
		state.SalesStart, state.SalesEnd, state.Active, state.Version,
		state.CreatedAt, state.UpdatedAt,
	)

	return err
}

func (r *TicketTypeRepositoryImpl) List(ctx context.Context) ([]*domain.TicketType, error) {
	query := `
		SELECT ` + ticketTypeColumns + `
		FROM ticket_types
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ticketTypes := make([]*domain.TicketType, 0)

	for rows.Next() {
		ticketType, err := scanTicketType(rows)
		if err != nil {
			return nil, err
		}
		ticketTypes = append(ticketTypes, ticketType)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ticketTypes, nil
}

func (r *TicketTypeRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	query := `
		SELECT ` + ticketTypeColumns + `
		FROM ticket_types
		WHERE id = $1
	`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrTicketTypeNotFound
	}

	return scanTicketType(rows)
}

func (r *TicketTypeRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TicketType, error) {
	query := `
		SELECT ` + ticketTypeColumns + `
		FROM ticket_types
		WHERE id = $1
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrTicketTypeNotFound
	}

	return scanTicketType(rows)
}

const saveQuery = `
		UPDATE ticket_types
		SET name = $1, description = $2, price_amount = $3, currency = $4,
			quantity = $5, sold_quantity = $6, sales_start = $7, sales_end = $8,
			is_active = $9, version = version + 1, updated_at = $10
		WHERE id = $11 AND version = $12
	`

func (r *TicketTypeRepositoryImpl) Save(ctx context.Context, ticketType *domain.TicketType) error {
	state := ticketType.State()

	result, err := r.pool.Exec(ctx, saveQuery,
		state.Name, state.Description, state.PriceAmount, state.Currency,
		state.Quantity, state.Sold, state.SalesStart, state.SalesEnd,
		state.Active, state.UpdatedAt, state.ID, state.Version,
	)
	if err != nil {
		return err
	}

	// 0 rows: 不存在，或 version 已被別人改走
	if result.RowsAffected() == 0 {
		return r.classifySaveConflict(ctx, state.ID)
	}

	return nil
}

func (r *TicketTypeRepositoryImpl) SaveWithTx(ctx context.Context, tx pgx.Tx, ticketType *domain.TicketType) error {
	state := ticketType.State()

	result, err := tx.Exec(ctx, saveQuery,
		state.Name, state.Description, state.PriceAmount, state.Currency,
		state.Quantity, state.Sold, state.SalesStart, state.SalesEnd,
		state.Active, state.UpdatedAt, state.ID, state.Version,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return r.classifySaveConflict(ctx, state.ID)
	}

	return nil
}

func (r *TicketTypeRepositoryImpl) classifySaveConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ticket_types WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrTicketTypeNotFound
	}
	return apperrors.ErrConcurrentModification
}

func scanTicketType(rows pgx.Rows) (*domain.TicketType, error) {
	var state domain.TicketTypeState
	err := rows.Scan(
		&state.ID,
		&state.EventID,
		&state.Name,
		&state.Description,
		&state.PriceAmount,
		&state.Currency,
		&state.Quantity,
		&state.Sold,
		&state.SalesStart,
		&state.SalesEnd,
		&state.Active,
		&state.Version,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reconstituted := domain.ReconstituteTicketType(state)
	if reconstituted.IsErr() {
		return nil, reconstituted.Error()
	}
	return reconstituted.Value(), nil
}
