package outbox

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-ticket-inventory/internal/domain"
	apperrors "go-ticket-inventory/pkg/app_errors"
)

// MemoryStoreImpl 記憶體版 Store：單機執行與測試用
type MemoryStoreImpl struct {
	mu         sync.RWMutex
	records    map[uuid.UUID]*Record
	maxRetries int
}

func NewMemoryStore(maxRetries int) Store {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &MemoryStoreImpl{
		records:    make(map[uuid.UUID]*Record),
		maxRetries: maxRetries,
	}
}

func (s *MemoryStoreImpl) Store(_ context.Context, event domain.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[event.EventID()]; exists {
		return apperrors.ErrDuplicateEvent
	}
	s.records[event.EventID()] = &Record{
		EventID:    event.EventID(),
		EventName:  event.EventName(),
		Payload:    event.Payload(),
		OccurredAt: event.OccurredAt(),
		RetryCount: 0,
	}
	return nil
}

func (s *MemoryStoreImpl) MarkPublished(_ context.Context, eventID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[eventID]
	if !exists {
		return nil
	}
	if record.PublishedAt != nil {
		// published records are never mutated again
		return nil
	}
	now := time.Now().UTC()
	record.PublishedAt = &now
	return nil
}

func (s *MemoryStoreImpl) IncrementRetry(_ context.Context, eventID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[eventID]
	if !exists {
		return nil
	}
	if record.PublishedAt != nil {
		return nil
	}
	record.RetryCount++
	return nil
}

func (s *MemoryStoreImpl) Unpublished(_ context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]*Record, 0)
	for _, record := range s.records {
		if record.PublishedAt == nil && record.RetryCount < s.maxRetries {
			pending = append(pending, copyRecord(record))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].OccurredAt.Before(pending[j].OccurredAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *MemoryStoreImpl) FindByName(_ context.Context, name string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*Record, 0)
	for _, record := range s.records {
		if record.EventName == name {
			matched = append(matched, copyRecord(record))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.Before(matched[j].OccurredAt)
	})
	return matched, nil
}

func (s *MemoryStoreImpl) PrunePublished(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned int64
	for id, record := range s.records {
		if record.PublishedAt != nil && record.PublishedAt.Before(before) {
			delete(s.records, id)
			pruned++
		}
	}
	return pruned, nil
}

// copyRecord returns a snapshot so callers cannot mutate store state.
func copyRecord(record *Record) *Record {
	copied := *record
	if record.PublishedAt != nil {
		publishedAt := *record.PublishedAt
		copied.PublishedAt = &publishedAt
	}
	return &copied
}
