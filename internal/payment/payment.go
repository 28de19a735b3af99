package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	Approved Status = "approved"
	Declined Status = "declined"
	Error    Status = "error"
)

// Result is the outcome of a charge attempt.
type Result struct {
	Status    Status `json:"status"`
	Reference string `json:"reference,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Gateway charges a user for an order total.
type Gateway interface {
	Charge(ctx context.Context, userID int, amount decimal.Decimal) (Result, error)
}

// SimulatedGateway approves every charge after a fixed delay. When
// declineAbove is positive, totals above it are declined.
type SimulatedGateway struct {
	delay        time.Duration
	declineAbove decimal.Decimal
}

func NewSimulatedGateway(delay time.Duration, declineAbove decimal.Decimal) *SimulatedGateway {
	return &SimulatedGateway{delay: delay, declineAbove: declineAbove}
}

func (g *SimulatedGateway) Charge(ctx context.Context, userID int, amount decimal.Decimal) (Result, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{Status: Error, Reason: "payment timed out"}, ctx.Err()
		case <-timer.C:
		}
	}

	if amount.IsNegative() {
		return Result{Status: Declined, Reason: "invalid amount"}, nil
	}
	if g.declineAbove.IsPositive() && amount.GreaterThan(g.declineAbove) {
		return Result{Status: Declined, Reason: "amount exceeds limit"}, nil
	}
	return Result{Status: Approved, Reference: "PAY-" + uuid.NewString()}, nil
}
