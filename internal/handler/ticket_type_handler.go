package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-ticket-inventory/internal/domain"
	"go-ticket-inventory/internal/model"
	"go-ticket-inventory/internal/service"
	apperrors "go-ticket-inventory/pkg/app_errors"
	"go-ticket-inventory/pkg/logger"
)

type TicketTypeHandler struct {
	service service.TicketTypeService
}

func NewTicketTypeHandler(service service.TicketTypeService) *TicketTypeHandler {
	return &TicketTypeHandler{service: service}
}

func (h *TicketTypeHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("ticket-types", h.List)
		router.GET("ticket-types/:uuid", h.GetByID)
		router.POST("ticket-types", h.Create)
		router.PATCH("ticket-types/:uuid", h.UpdateDetails)
		router.PUT("ticket-types/:uuid/price", h.UpdatePrice)
		router.PUT("ticket-types/:uuid/quantity", h.UpdateQuantity)
		router.PUT("ticket-types/:uuid/sales-period", h.UpdateSalesPeriod)
		router.POST("ticket-types/:uuid/sales", h.RecordSale)
		router.POST("ticket-types/:uuid/sales/cancel", h.CancelSale)
		router.POST("ticket-types/:uuid/deactivate", h.Deactivate)
		router.POST("ticket-types/:uuid/reactivate", h.Reactivate)
	}
}

// CreateTicketTypeRequest 建立票種請求
type CreateTicketTypeRequest struct {
	EventID     string    `json:"event_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	PriceAmount float64   `json:"price_amount" binding:"required"`
	Currency    string    `json:"currency" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required"`
	SalesStart  time.Time `json:"sales_start" binding:"required"`
	SalesEnd    time.Time `json:"sales_end" binding:"required"`
}

// UpdateTicketTypeRequest 更新票種名稱/描述請求
type UpdateTicketTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type UpdatePriceRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type UpdateSalesPeriodRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

type SaleRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *TicketTypeHandler) List(c *gin.Context) {
	ticketTypes, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	responses := make([]model.TicketTypeResponse, 0, len(ticketTypes))
	for _, t := range ticketTypes {
		responses = append(responses, model.NewTicketTypeResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *TicketTypeHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ticketType, err := h.service.GetByID(c, id)
	if err != nil {
		h.handleError(c, err, "GetByID")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(ticketType))
}

func (h *TicketTypeHandler) Create(c *gin.Context) {
	var req CreateTicketTypeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return
	}
	created, err := h.service.Create(c, domain.NewTicketTypeParams{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		PriceAmount: req.PriceAmount,
		Currency:    req.Currency,
		Quantity:    req.Quantity,
		SalesStart:  req.SalesStart,
		SalesEnd:    req.SalesEnd,
	})
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, model.NewTicketTypeResponse(created))
}

func (h *TicketTypeHandler) UpdateDetails(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateTicketTypeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	if req.Name == nil && req.Description == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one of name or description is required"})
		return
	}

	// 兩個欄位一次套用：任一欄位失敗就整筆不存，不留半套狀態
	updated, err := h.service.UpdateDetails(c, id, req.Name, req.Description)
	if err != nil {
		h.handleError(c, err, "UpdateDetails")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func (h *TicketTypeHandler) UpdatePrice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdatePriceRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.UpdatePrice(c, id, req.Amount, req.Currency)
	if err != nil {
		h.handleError(c, err, "UpdatePrice")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func (h *TicketTypeHandler) UpdateQuantity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.UpdateQuantity(c, id, req.Quantity)
	if err != nil {
		h.handleError(c, err, "UpdateQuantity")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func (h *TicketTypeHandler) UpdateSalesPeriod(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateSalesPeriodRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.UpdateSalesPeriod(c, id, req.Start, req.End)
	if err != nil {
		h.handleError(c, err, "UpdateSalesPeriod")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func (h *TicketTypeHandler) RecordSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SaleRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.RecordSale(c, id, req.Quantity)
	if err != nil {
		h.handleError(c, err, "RecordSale")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func (h *TicketTypeHandler) CancelSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SaleRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	updated, err := h.service.CancelSale(c, id, req.Quantity)
	if err != nil {
		h.handleError(c, err, "CancelSale")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func (h *TicketTypeHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	updated, err := h.service.Deactivate(c, id)
	if err != nil {
		h.handleError(c, err, "Deactivate")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func (h *TicketTypeHandler) Reactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	updated, err := h.service.Reactivate(c, id)
	if err != nil {
		h.handleError(c, err, "Reactivate")
		return
	}
	c.JSON(http.StatusOK, model.NewTicketTypeResponse(updated))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket type uuid"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *TicketTypeHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketTypeNotFound):
		log.Warn("Ticket type not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket type not found"})
	case errors.Is(err, apperrors.ErrMissingName),
		errors.Is(err, apperrors.ErrNameTooLong),
		errors.Is(err, apperrors.ErrDescriptionTooLong),
		errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrInvalidSalesPeriod),
		errors.Is(err, apperrors.ErrNonPositiveDelta),
		errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientAvailability),
		errors.Is(err, apperrors.ErrExceedsSoldCount),
		errors.Is(err, apperrors.ErrCannotModifyAfterSales),
		errors.Is(err, apperrors.ErrCannotReduceQuantity),
		errors.Is(err, apperrors.ErrCannotReactivateSoldOut),
		errors.Is(err, apperrors.ErrSoldExceedsQuantity):
		log.Warn("Business rule rejected")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrentModification):
		log.Warn("Concurrent modification")
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrent modification, retry"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
