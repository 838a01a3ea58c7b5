package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"go-ticket-inventory/config"
	"go-ticket-inventory/internal/cache"
	"go-ticket-inventory/internal/database"
	"go-ticket-inventory/internal/domain"
	"go-ticket-inventory/internal/handler"
	"go-ticket-inventory/internal/outbox"
	"go-ticket-inventory/internal/publisher"
	"go-ticket-inventory/internal/queue"
	"go-ticket-inventory/internal/repository"
	"go-ticket-inventory/internal/service"
	"go-ticket-inventory/internal/worker"
	"go-ticket-inventory/migrations"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// 出庫箱與發布管線
	outboxStore := outbox.NewPostgresStore(pool, cfg.Outbox.MaxRetries)
	dispatcher := publisher.NewDispatcher()
	eventPublisher := publisher.NewEventPublisher(outboxStore, dispatcher)

	// 售完事實轉送到 Redis Stream，由通知 worker 消費
	factQueue, err := queue.NewRedisStreamFactQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize fact queue: %v", err)
	}
	dispatcher.Register(domain.EventTicketTypeSoldOut, func(ctx context.Context, record *outbox.Record) error {
		return factQueue.PublishFact(ctx, record)
	})

	notificationWorker := worker.NewNotificationWorker(factQueue)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	// 未發布事實的定期重送
	outboxWorker := worker.NewOutboxWorker(outboxStore, dispatcher, cfg.Outbox.SweepInterval, cfg.Outbox.BatchSize, cfg.Outbox.Retention)
	outboxWorker.Start(ctx)
	defer outboxWorker.Stop()

	// 票種服務
	ticketTypeRepository := repository.NewTicketTypeRepository(pool)
	inventoryCache := cache.NewInventoryCache(rdb)
	ticketTypeService := service.NewTicketTypeService(pool, ticketTypeRepository, inventoryCache, eventPublisher)

	router := gin.Default()
	handler.NewTicketTypeHandler(ticketTypeService).RegisterRoutes(router)
	handler.NewOutboxHandler(outboxStore, cfg.Outbox.BatchSize).RegisterRoutes(router)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	router.Run()
}
