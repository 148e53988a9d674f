// Package payment talks to the card processor. Only the charge call used by
// checkout is implemented.
package payment

import (
	"context"
	"errors"
)

// Charge is the processor's confirmation of a completed charge.
type Charge struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Gateway exchanges a client payment token and an amount for a Charge.
// Implementations must honor ctx cancellation.
type Gateway interface {
	Charge(ctx context.Context, amount int64, currency, source string) (*Charge, error)
}

// ErrDeclined is returned when the processor answers but refuses the charge.
var ErrDeclined = errors.New("charge declined")
