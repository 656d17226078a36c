package usecase

import (
	"time"

	"event-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// Group discount tiers: 10% off at 5 seats, 15% off at 10.
const (
	groupDiscountMinSeats      = 5
	largeGroupDiscountMinSeats = 10
)

var (
	groupDiscountFactor      = decimal.NewFromFloat(0.90)
	largeGroupDiscountFactor = decimal.NewFromFloat(0.85)
)

// Quote computes the chargeable amount for seatCount seats of an event as of
// the given time. Free events always quote zero. The early-bird unit price
// applies strictly before the deadline. The result is exact decimal
// arithmetic; rounding to the minor currency unit happens once, at the
// payment gateway boundary.
func Quote(event *entity.Event, seatCount int, asOf time.Time) decimal.Decimal {
	if event.IsFree || seatCount < 1 {
		return decimal.Zero
	}

	unitPrice := event.Price
	if event.EarlyBirdPrice != nil && event.EarlyBirdDeadline != nil && asOf.Before(*event.EarlyBirdDeadline) {
		unitPrice = *event.EarlyBirdPrice
	}

	total := unitPrice.Mul(decimal.NewFromInt(int64(seatCount)))

	switch {
	case seatCount >= largeGroupDiscountMinSeats:
		total = total.Mul(largeGroupDiscountFactor)
	case seatCount >= groupDiscountMinSeats:
		total = total.Mul(groupDiscountFactor)
	}

	return total
}
