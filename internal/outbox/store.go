// Package outbox is the durable fact log: every domain event is persisted
// here before any dispatch attempt, so delivery can be retried without
// risking silent loss.
package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-ticket-inventory/internal/domain"
)

// DefaultMaxRetries is the redelivery ceiling used when config supplies none.
const DefaultMaxRetries = 3

// Record 包裝已持久化的領域事實，追蹤發布狀態與重試次數
type Record struct {
	EventID     uuid.UUID              `json:"event_id" db:"event_id"`
	EventName   string                 `json:"event_name" db:"event_name"`
	Payload     map[string]interface{} `json:"payload" db:"payload"`
	OccurredAt  time.Time              `json:"occurred_at" db:"occurred_at"`
	PublishedAt *time.Time             `json:"published_at,omitempty" db:"published_at"`
	RetryCount  int                    `json:"retry_count" db:"retry_count"`
}

func (r *Record) IsPublished() bool {
	return r.PublishedAt != nil
}

type Store interface {
	// Store persists a record for the event with retry=0 and no published-at.
	// Storing an already-stored event id fails with ErrDuplicateEvent.
	Store(ctx context.Context, event domain.DomainEvent) error
	// MarkPublished sets published-at to now. Unknown ids are a no-op: a
	// confirmation arriving after eviction must not crash the pipeline.
	MarkPublished(ctx context.Context, eventID uuid.UUID) error
	// IncrementRetry bumps the retry counter; no-op on unknown ids.
	IncrementRetry(ctx context.Context, eventID uuid.UUID) error
	// Unpublished returns up to limit records with no published-at and a
	// retry count below the ceiling, oldest first; limit <= 0 means no
	// limit. Records past the ceiling are stuck and only surface through
	// FindByName/alerting.
	Unpublished(ctx context.Context, limit int) ([]*Record, error)
	// FindByName returns all records for a fact name ordered by occurrence
	// instant ascending. Audit/replay, not delivery.
	FindByName(ctx context.Context, name string) ([]*Record, error)
	// PrunePublished removes records published before the cutoff, so the log
	// does not grow unboundedly. Returns the number of records removed.
	PrunePublished(ctx context.Context, before time.Time) (int64, error)
}
