package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ticket-inventory/internal/outbox"
	"go-ticket-inventory/pkg/logger"
)

// OutboxHandler 出庫箱的稽核視圖：未發布事實與依名稱回放
type OutboxHandler struct {
	store     outbox.Store
	batchSize int
}

func NewOutboxHandler(store outbox.Store, batchSize int) *OutboxHandler {
	return &OutboxHandler{store: store, batchSize: batchSize}
}

func (h *OutboxHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/outbox")
	{
		router.GET("unpublished", h.Unpublished)
		router.GET("facts/:name", h.FactsByName)
	}
}

func (h *OutboxHandler) Unpublished(c *gin.Context) {
	records, err := h.store.Unpublished(c, h.batchSize)
	if err != nil {
		logger.WithComponent("handler").Error("list unpublished facts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *OutboxHandler) FactsByName(c *gin.Context) {
	records, err := h.store.FindByName(c, c.Param("name"))
	if err != nil {
		logger.WithComponent("handler").Error("list facts by name failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, records)
}
