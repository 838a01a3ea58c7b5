package worker

import (
	"context"

	"go.uber.org/zap"

	"go-ticket-inventory/internal/domain"
	"go-ticket-inventory/internal/queue"
	"go-ticket-inventory/pkg/logger"
)

// NotificationWorker 消費事實隊列，對售完事實發出通知。
// 這裡是通知訂閱方的邊界：實際的信件/推播屬於外部系統。
type NotificationWorker interface {
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	queue queue.FactQueue
}

func NewNotificationWorker(queue queue.FactQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		queue: queue,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeFacts(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("notification_worker")
		for msg := range msgs {
			record := msg.Data
			switch record.EventName {
			case domain.EventTicketTypeSoldOut:
				log.Info("sold out notification",
					zap.Any("ticket_type_id", record.Payload["ticket_type_id"]),
					zap.Any("event_id", record.Payload["event_id"]),
					zap.Any("ticket_type_name", record.Payload["ticket_type_name"]),
					zap.Any("total_quantity", record.Payload["total_quantity"]),
				)
				msg.Ack()
			default:
				// 未知事實不重送，直接結案
				log.Warn("unhandled fact", zap.String("event_name", record.EventName))
				msg.Nack(false)
			}
		}
	}()
	return nil
}
