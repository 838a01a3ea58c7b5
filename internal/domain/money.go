package domain

import (
	"fmt"

	apperrors "go-ticket-inventory/pkg/app_errors"
	"go-ticket-inventory/pkg/outcome"
)

// Money 票價值物件：金額必須為正數
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// NewMoney validates the positivity rule before the value exists.
func NewMoney(amount float64, currency string) outcome.Outcome[Money] {
	if amount <= 0 {
		return outcome.Err[Money](apperrors.ErrInvalidPrice)
	}
	if currency == "" {
		return outcome.Err[Money](apperrors.ErrInvalidInput)
	}
	return outcome.Ok(Money{Amount: amount, Currency: currency})
}

// Times returns the plain numeric total for n units. Zero-safe: there is no
// positivity rule on a derived amount, only on the price itself.
func (m Money) Times(n int) float64 {
	return m.Amount * float64(n)
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}
