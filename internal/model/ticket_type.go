package model

import (
	"time"

	"github.com/google/uuid"

	"go-ticket-inventory/internal/domain"
)

// TicketTypeResponse 票種的扁平序列化表示；衍生欄位每次重新計算，不落庫
type TicketTypeResponse struct {
	ID                uuid.UUID `json:"id"`
	EventID           uuid.UUID `json:"event_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Price             Price     `json:"price"`
	Quantity          int       `json:"quantity"`
	SoldQuantity      int       `json:"sold_quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	SalesPeriod       Period    `json:"sales_period"`
	IsActive          bool      `json:"is_active"`
	IsSoldOut         bool      `json:"is_sold_out"`
	IsOnSale          bool      `json:"is_on_sale"`
	SalesProgress     int       `json:"sales_progress"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Period serializes the sales window as ISO-8601 instants.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewTicketTypeResponse(t *domain.TicketType) TicketTypeResponse {
	now := time.Now().UTC()
	return TicketTypeResponse{
		ID:                t.ID(),
		EventID:           t.EventID(),
		Name:              t.Name(),
		Description:       t.Description(),
		Price:             Price{Amount: t.Price().Amount, Currency: t.Price().Currency},
		Quantity:          t.Quantity(),
		SoldQuantity:      t.Sold(),
		AvailableQuantity: t.Available(),
		SalesPeriod:       Period{Start: t.SalesPeriod().StartsAt, End: t.SalesPeriod().EndsAt},
		IsActive:          t.IsActive(),
		IsSoldOut:         t.IsSoldOut(),
		IsOnSale:          t.IsOnSale(now),
		SalesProgress:     t.SalesProgress(),
		CreatedAt:         t.CreatedAt(),
		UpdatedAt:         t.UpdatedAt(),
	}
}
