package domain

import (
	"time"

	"github.com/google/uuid"
)

// Fact names used as routing keys by the publisher and the fact queue.
const (
	EventTicketTypeSoldOut = "ticket_type.sold_out"
)

// DomainEvent 不可變的領域事實：發生過的事，帶唯一 ID 與發生時間
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	OccurredAt() time.Time
	// Payload returns a flat field-name to scalar mapping for serialization.
	Payload() map[string]interface{}
}

// EventSource is anything that queues domain events while mutating.
// TakeQueuedEvents is the only sanctioned drain point: it returns the pending
// events and clears the queue in one step, so a fact cannot be published twice
// by a caller that forgets to clear.
type EventSource interface {
	TakeQueuedEvents() []DomainEvent
}

// BaseEvent provides the identity and timestamp every event carries.
type BaseEvent struct {
	ID         uuid.UUID `json:"event_id"`
	OccurredOn time.Time `json:"occurred_at"`
}

func newBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), OccurredOn: time.Now().UTC()}
}

func (b BaseEvent) EventID() uuid.UUID    { return b.ID }
func (b BaseEvent) OccurredAt() time.Time { return b.OccurredOn }

// TicketSoldOutEvent fires exactly when sold count reaches total quantity.
type TicketSoldOutEvent struct {
	BaseEvent
	TicketTypeID   uuid.UUID `json:"ticket_type_id"`
	ParentEventID  uuid.UUID `json:"parent_event_id"`
	TicketTypeName string    `json:"ticket_type_name"`
	TotalQuantity  int       `json:"total_quantity"`
}

func NewTicketSoldOutEvent(ticketTypeID, parentEventID uuid.UUID, name string, totalQuantity int) *TicketSoldOutEvent {
	return &TicketSoldOutEvent{
		BaseEvent:      newBaseEvent(),
		TicketTypeID:   ticketTypeID,
		ParentEventID:  parentEventID,
		TicketTypeName: name,
		TotalQuantity:  totalQuantity,
	}
}

func (e *TicketSoldOutEvent) EventName() string {
	return EventTicketTypeSoldOut
}

func (e *TicketSoldOutEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"ticket_type_id":   e.TicketTypeID.String(),
		"event_id":         e.ParentEventID.String(),
		"ticket_type_name": e.TicketTypeName,
		"total_quantity":   e.TotalQuantity,
	}
}
