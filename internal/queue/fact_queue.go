package queue

import (
	"context"

	"go-ticket-inventory/internal/outbox"
)

type Delivery struct {
	Data *outbox.Record
	Ack  func()
	Nack func(requeue bool)
}

// FactQueue carries published facts to external notification consumers.
type FactQueue interface {
	// 發送事實到隊列
	PublishFact(ctx context.Context, record *outbox.Record) error
	// 訂閱事實隊列
	SubscribeFacts(ctx context.Context) (<-chan Delivery, error)
}
