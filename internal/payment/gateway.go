package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInitiation is returned when the gateway rejects or fails an STK push
// request. The booking stays pending; the holder may retry.
var ErrInitiation = errors.New("payment initiation failed")

// InitiateRequest carries everything the gateway needs to push a payment
// prompt to the payer. Amount must already be rounded to the minor currency
// unit; rounding happens exactly once, at this boundary.
type InitiateRequest struct {
	BookingID  string
	Amount     decimal.Decimal
	PayerPhone string
	IsGroup    bool
}

// InitiateResult is the synchronous acknowledgement. The actual payment
// outcome arrives later on the callback endpoint.
type InitiateResult struct {
	Accepted    bool
	Message     string
	ProviderRef string
}

// Gateway is the outbound boundary to the payment provider. Implementations
// must not block past their configured timeout; a hung provider surfaces as
// ErrInitiation, never as a stuck request.
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
}
