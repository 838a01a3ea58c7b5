package domain

import (
	"time"

	apperrors "go-ticket-inventory/pkg/app_errors"
	"go-ticket-inventory/pkg/outcome"
)

// SalesPeriod 銷售時間窗：start 必須嚴格早於 end
type SalesPeriod struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func NewSalesPeriod(startsAt, endsAt time.Time) outcome.Outcome[SalesPeriod] {
	if !startsAt.Before(endsAt) {
		return outcome.Err[SalesPeriod](apperrors.ErrInvalidSalesPeriod)
	}
	return outcome.Ok(SalesPeriod{StartsAt: startsAt.UTC(), EndsAt: endsAt.UTC()})
}

// Contains reports whether the instant falls within the window.
func (p SalesPeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartsAt) && t.Before(p.EndsAt)
}
