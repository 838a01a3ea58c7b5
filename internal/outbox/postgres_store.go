package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-ticket-inventory/internal/domain"
	apperrors "go-ticket-inventory/pkg/app_errors"
)

// PostgresStoreImpl persists outbox records in the outbox_events table.
// A partial index on (occurred_at) WHERE published_at IS NULL keeps the
// Unpublished scan cheap regardless of table growth.
type PostgresStoreImpl struct {
	pool       *pgxpool.Pool
	maxRetries int
}

func NewPostgresStore(pool *pgxpool.Pool, maxRetries int) Store {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &PostgresStoreImpl{
		pool:       pool,
		maxRetries: maxRetries,
	}
}

func (s *PostgresStoreImpl) Store(ctx context.Context, event domain.DomainEvent) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		INSERT INTO outbox_events (event_id, event_name, payload, occurred_at, retry_count)
		VALUES ($1, $2, $3, $4, 0)
	`

	_, err = s.pool.Exec(ctx, query, event.EventID(), event.EventName(), payload, event.OccurredAt())
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation，同一事實不可重複入庫
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateEvent
		}
		return err
	}

	return nil
}

func (s *PostgresStoreImpl) MarkPublished(ctx context.Context, eventID uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET published_at = $1
		WHERE event_id = $2 AND published_at IS NULL
	`

	// RowsAffected 0 means unknown or already published; both are no-ops.
	_, err := s.pool.Exec(ctx, query, time.Now().UTC(), eventID)
	return err
}

func (s *PostgresStoreImpl) IncrementRetry(ctx context.Context, eventID uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET retry_count = retry_count + 1
		WHERE event_id = $1 AND published_at IS NULL
	`

	_, err := s.pool.Exec(ctx, query, eventID)
	return err
}

func (s *PostgresStoreImpl) Unpublished(ctx context.Context, limit int) ([]*Record, error) {
	query := `
		SELECT event_id, event_name, payload, occurred_at, published_at, retry_count
		FROM outbox_events
		WHERE published_at IS NULL AND retry_count < $1
		ORDER BY occurred_at ASC
		LIMIT $2
	`

	// LIMIT NULL 等同 LIMIT ALL，limit <= 0 視為不設上限
	var rowLimit *int
	if limit > 0 {
		rowLimit = &limit
	}

	rows, err := s.pool.Query(ctx, query, s.maxRetries, rowLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresStoreImpl) FindByName(ctx context.Context, name string) ([]*Record, error) {
	query := `
		SELECT event_id, event_name, payload, occurred_at, published_at, retry_count
		FROM outbox_events
		WHERE event_name = $1
		ORDER BY occurred_at ASC
	`

	rows, err := s.pool.Query(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresStoreImpl) PrunePublished(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM outbox_events
		WHERE published_at IS NOT NULL AND published_at < $1
	`

	result, err := s.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanRecords(rows pgx.Rows) ([]*Record, error) {
	records := make([]*Record, 0)

	for rows.Next() {
		var record Record
		var payload []byte
		err := rows.Scan(
			&record.EventID,
			&record.EventName,
			&payload,
			&record.OccurredAt,
			&record.PublishedAt,
			&record.RetryCount,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &record.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
