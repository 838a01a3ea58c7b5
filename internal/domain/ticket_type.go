package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "go-ticket-inventory/pkg/app_errors"
	"go-ticket-inventory/pkg/outcome"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// TicketType 票種聚合根：庫存不變量的一致性邊界。
// 同一個實例假設同時只有一個 writer；跨程序的序列化由持久層的
// version 欄位（樂觀鎖）負責。
type TicketType struct {
	id          uuid.UUID
	eventID     uuid.UUID
	name        string
	description string
	price       Money
	quantity    int
	sold        int
	salesPeriod SalesPeriod
	active      bool
	version     int
	createdAt   time.Time
	updatedAt   time.Time

	pendingEvents []DomainEvent
}

// NewTicketTypeParams carries plain, syntactically valid input. All semantic
// validation happens here; upstream DTO validation is not assumed.
type NewTicketTypeParams struct {
	EventID     uuid.UUID
	Name        string
	Description string
	PriceAmount float64
	Currency    string
	Quantity    int
	SalesStart  time.Time
	SalesEnd    time.Time
}

// NewTicketType is the validating factory: invalid input is rejected before
// the aggregate exists. sold starts at 0 and the type starts active.
func NewTicketType(params NewTicketTypeParams) outcome.Outcome[*TicketType] {
	if err := validateName(params.Name); err != nil {
		return outcome.Err[*TicketType](err)
	}
	if err := validateDescription(params.Description); err != nil {
		return outcome.Err[*TicketType](err)
	}
	if params.Quantity <= 0 {
		return outcome.Err[*TicketType](apperrors.ErrInvalidQuantity)
	}
	price := NewMoney(params.PriceAmount, params.Currency)
	if price.IsErr() {
		return outcome.Err[*TicketType](price.Error())
	}
	period := NewSalesPeriod(params.SalesStart, params.SalesEnd)
	if period.IsErr() {
		return outcome.Err[*TicketType](period.Error())
	}

	now := time.Now().UTC()
	return outcome.Ok(&TicketType{
		id:          uuid.New(),
		eventID:     params.EventID,
		name:        strings.TrimSpace(params.Name),
		description: params.Description,
		price:       price.Value(),
		quantity:    params.Quantity,
		sold:        0,
		salesPeriod: period.Value(),
		active:      true,
		version:     0,
		createdAt:   now,
		updatedAt:   now,
	})
}

// TicketTypeState is the persisted shape handed back by the repository.
type TicketTypeState struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	Name        string
	Description string
	PriceAmount float64
	Currency    string
	Quantity    int
	Sold        int
	SalesStart  time.Time
	SalesEnd    time.Time
	Active      bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReconstituteTicketType rebuilds an aggregate from persisted state,
// re-checking every invariant so a corrupted row cannot come back to life.
func ReconstituteTicketType(state TicketTypeState) outcome.Outcome[*TicketType] {
	if err := validateName(state.Name); err != nil {
		return outcome.Err[*TicketType](err)
	}
	if err := validateDescription(state.Description); err != nil {
		return outcome.Err[*TicketType](err)
	}
	if state.Quantity <= 0 {
		return outcome.Err[*TicketType](apperrors.ErrInvalidQuantity)
	}
	if state.Sold < 0 {
		return outcome.Err[*TicketType](apperrors.ErrInvalidQuantity)
	}
	if state.Sold > state.Quantity {
		return outcome.Err[*TicketType](apperrors.ErrSoldExceedsQuantity)
	}
	price := NewMoney(state.PriceAmount, state.Currency)
	if price.IsErr() {
		return outcome.Err[*TicketType](price.Error())
	}
	period := NewSalesPeriod(state.SalesStart, state.SalesEnd)
	if period.IsErr() {
		return outcome.Err[*TicketType](period.Error())
	}

	return outcome.Ok(&TicketType{
		id:          state.ID,
		eventID:     state.EventID,
		name:        state.Name,
		description: state.Description,
		price:       price.Value(),
		quantity:    state.Quantity,
		sold:        state.Sold,
		salesPeriod: period.Value(),
		active:      state.Active,
		version:     state.Version,
		createdAt:   state.CreatedAt,
		updatedAt:   state.UpdatedAt,
	})
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.ErrMissingName
	}
	if len([]rune(trimmed)) > maxNameLength {
		return apperrors.ErrNameTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if len([]rune(description)) > maxDescriptionLength {
		return apperrors.ErrDescriptionTooLong
	}
	return nil
}

func (t *TicketType) ID() uuid.UUID            { return t.id }
func (t *TicketType) EventID() uuid.UUID       { return t.eventID }
func (t *TicketType) Name() string             { return t.name }
func (t *TicketType) Description() string      { return t.description }
func (t *TicketType) Price() Money             { return t.price }
func (t *TicketType) Quantity() int            { return t.quantity }
func (t *TicketType) Sold() int                { return t.sold }
func (t *TicketType) SalesPeriod() SalesPeriod { return t.salesPeriod }
func (t *TicketType) IsActive() bool           { return t.active }
func (t *TicketType) Version() int             { return t.version }
func (t *TicketType) CreatedAt() time.Time     { return t.createdAt }
func (t *TicketType) UpdatedAt() time.Time     { return t.updatedAt }

// Available 剩餘可售數量
func (t *TicketType) Available() int {
	return t.quantity - t.sold
}

func (t *TicketType) IsSoldOut() bool {
	return t.sold >= t.quantity
}

// IsOnSale 啟用中、在銷售時間窗內、且尚未售完
func (t *TicketType) IsOnSale(now time.Time) bool {
	return t.active && t.salesPeriod.Contains(now) && !t.IsSoldOut()
}

// SalesProgress returns sold/quantity as a rounded percentage.
func (t *TicketType) SalesProgress() int {
	return int(math.Round(float64(t.sold) / float64(t.quantity) * 100))
}

// RevenueAmount is the zero-safe revenue query: a plain numeric total that is
// 0 when nothing sold. Money's positivity rule does not apply to it.
func (t *TicketType) RevenueAmount() float64 {
	return t.price.Times(t.sold)
}

// Revenue returns revenue as Money. Fails with ErrNoRevenue when nothing has
// sold, since a zero amount cannot satisfy Money's positivity rule.
func (t *TicketType) Revenue() outcome.Outcome[Money] {
	if t.sold == 0 {
		return outcome.Err[Money](apperrors.ErrNoRevenue)
	}
	return NewMoney(t.price.Times(t.sold), t.price.Currency)
}

// UpdateName replaces the name, within the same bounds as creation.
func (t *TicketType) UpdateName(name string) outcome.Outcome[*TicketType] {
	if err := validateName(name); err != nil {
		return outcome.Err[*TicketType](err)
	}
	t.name = strings.TrimSpace(name)
	t.touch()
	return outcome.Ok(t)
}

func (t *TicketType) UpdateDescription(description string) outcome.Outcome[*TicketType] {
	if err := validateDescription(description); err != nil {
		return outcome.Err[*TicketType](err)
	}
	t.description = description
	t.touch()
	return outcome.Ok(t)
}

// UpdatePrice is blocked once any unit has sold: buyers must not see the
// terms change under them.
func (t *TicketType) UpdatePrice(amount float64, currency string) outcome.Outcome[*TicketType] {
	if t.sold > 0 {
		return outcome.Err[*TicketType](apperrors.ErrCannotModifyAfterSales)
	}
	price := NewMoney(amount, currency)
	if price.IsErr() {
		return outcome.Err[*TicketType](price.Error())
	}
	t.price = price.Value()
	t.touch()
	return outcome.Ok(t)
}

// UpdateQuantity replaces total quantity. Reducing below the sold count would
// break sold <= quantity and is rejected.
func (t *TicketType) UpdateQuantity(quantity int) outcome.Outcome[*TicketType] {
	if quantity <= 0 {
		return outcome.Err[*TicketType](apperrors.ErrInvalidQuantity)
	}
	if quantity < t.sold {
		return outcome.Err[*TicketType](apperrors.ErrCannotReduceQuantity)
	}
	t.quantity = quantity
	t.touch()
	return outcome.Ok(t)
}

// UpdateSalesPeriod is blocked once any unit has sold, same as UpdatePrice.
func (t *TicketType) UpdateSalesPeriod(startsAt, endsAt time.Time) outcome.Outcome[*TicketType] {
	if t.sold > 0 {
		return outcome.Err[*TicketType](apperrors.ErrCannotModifyAfterSales)
	}
	period := NewSalesPeriod(startsAt, endsAt)
	if period.IsErr() {
		return outcome.Err[*TicketType](period.Error())
	}
	t.salesPeriod = period.Value()
	t.touch()
	return outcome.Ok(t)
}

// IncrementSold records n units sold. Crossing from not-sold-out to sold-out
// queues exactly one TicketSoldOutEvent; once at capacity the availability
// check rejects further increments, so the fact cannot double-fire from this
// path. A decrement followed by a re-increment back to capacity fires again:
// each crossing is newsworthy.
func (t *TicketType) IncrementSold(n int) outcome.Outcome[*TicketType] {
	if n <= 0 {
		return outcome.Err[*TicketType](apperrors.ErrNonPositiveDelta)
	}
	if t.sold+n > t.quantity {
		return outcome.Err[*TicketType](apperrors.ErrInsufficientAvailability)
	}
	t.sold += n
	t.touch()
	if t.IsSoldOut() {
		t.queueEvent(NewTicketSoldOutEvent(t.id, t.eventID, t.name, t.quantity))
	}
	return outcome.Ok(t)
}

// DecrementSold releases n previously sold units (cancellation/refund path).
func (t *TicketType) DecrementSold(n int) outcome.Outcome[*TicketType] {
	if n <= 0 {
		return outcome.Err[*TicketType](apperrors.ErrNonPositiveDelta)
	}
	if n > t.sold {
		return outcome.Err[*TicketType](apperrors.ErrExceedsSoldCount)
	}
	t.sold -= n
	t.touch()
	return outcome.Ok(t)
}

// Deactivate is unconditional: entities are deactivated, never hard deleted.
func (t *TicketType) Deactivate() outcome.Outcome[*TicketType] {
	t.active = false
	t.touch()
	return outcome.Ok(t)
}

// Reactivate fails on a sold-out type: there is nothing left to sell.
func (t *TicketType) Reactivate() outcome.Outcome[*TicketType] {
	if t.IsSoldOut() {
		return outcome.Err[*TicketType](apperrors.ErrCannotReactivateSoldOut)
	}
	t.active = true
	t.touch()
	return outcome.Ok(t)
}

// TakeQueuedEvents drains the pending events in one pull-and-clear step.
// It is the only drain point; see EventSource.
func (t *TicketType) TakeQueuedEvents() []DomainEvent {
	events := t.pendingEvents
	t.pendingEvents = nil
	return events
}

func (t *TicketType) queueEvent(event DomainEvent) {
	t.pendingEvents = append(t.pendingEvents, event)
}

func (t *TicketType) touch() {
	t.updatedAt = time.Now().UTC()
}

// State snapshots the aggregate for persistence. Derived fields are not part
// of the persisted state; they are recomputed on read.
func (t *TicketType) State() TicketTypeState {
	return TicketTypeState{
		ID:          t.id,
		EventID:     t.eventID,
		Name:        t.name,
		Description: t.description,
		PriceAmount: t.price.Amount,
		Currency:    t.price.Currency,
		Quantity:    t.quantity,
		Sold:        t.sold,
		SalesStart:  t.salesPeriod.StartsAt,
		SalesEnd:    t.salesPeriod.EndsAt,
		Active:      t.active,
		Version:     t.version,
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
	}
}
