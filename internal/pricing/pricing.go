// Package pricing computes the financial breakdown of a booking. It is pure:
// no clock, no storage, no side effects. Monetary values keep full precision;
// rounding to two decimals happens at presentation time only.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/domain"
)

type DiscountPolicy string

const (
	DiscountNone       DiscountPolicy = "NONE"
	DiscountPercentage DiscountPolicy = "PERCENTAGE"
	DiscountFixed      DiscountPolicy = "FIXED"
	DiscountFlat       DiscountPolicy = "FLAT"
)

// Discount describes a discount rule. Value is a percentage for PERCENTAGE,
// a literal amount for FIXED, and a per-day amount for FLAT. Min and Max
// clamp the computed percentage amount when non-zero.
type Discount struct {
	Policy DiscountPolicy
	Value  decimal.Decimal
	Min    decimal.Decimal
	Max    decimal.Decimal
}

// Input carries everything needed to price a booking. When a Custom flag is
// set the corresponding Supplied value is trusted verbatim and the matching
// computation step is skipped; supplied values are only checked for
// non-negativity.
type Input struct {
	DayRate             decimal.Decimal
	Start               time.Time
	End                 time.Time
	Discount            Discount
	ExtraAmounts        []decimal.Decimal
	DeliveryFee         decimal.Decimal
	CollectionFee       decimal.Decimal
	Deposit             decimal.Decimal
	AdditionalDrivers   int
	AdditionalDriverFee decimal.Decimal

	CustomBasePrice   bool
	SuppliedBasePrice decimal.Decimal
	CustomDiscount    bool
	SuppliedDiscount  decimal.Decimal
	CustomSubTotal    bool
	SuppliedSubTotal  decimal.Decimal
	CustomNetTotal    bool
	SuppliedNetTotal  decimal.Decimal
}

// Quote is the computed breakdown.
//
// SubTotal = BasePrice - Discount + DeliveryFee + CollectionFee + additional driver fees
// NetTotal = SubTotal + TotalExtras + Deposit
type Quote struct {
	Days        int
	BasePrice   decimal.Decimal
	Discount    decimal.Decimal
	TotalExtras decimal.Decimal
	SubTotal    decimal.Decimal
	NetTotal    decimal.Decimal
}

// Days returns the billed rental length: calendar days between start and end
// rounded up, minimum one. A non-positive range is rejected.
func Days(start, end time.Time) (int, error) {
	d := end.Sub(start)
	if d <= 0 {
		return 0, domain.NewValidation("end_date", "must be after start date")
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days, nil
}

// Calculate prices a booking per the tenant's rules.
func Calculate(in Input) (Quote, error) {
	days, err := Days(in.Start, in.End)
	if err != nil {
		return Quote{}, err
	}

	if err := checkNonNegative(in); err != nil {
		return Quote{}, err
	}

	q := Quote{Days: days}
	nDays := decimal.NewFromInt(int64(days))

	if in.CustomBasePrice {
		q.BasePrice = in.SuppliedBasePrice
	} else {
		q.BasePrice = in.DayRate.Mul(nDays)
	}

	if in.CustomDiscount {
		q.Discount = in.SuppliedDiscount
	} else {
		q.Discount = discountAmount(in.Discount, q.BasePrice, nDays)
	}

	q.TotalExtras = decimal.Zero
	for _, amt := range in.ExtraAmounts {
		q.TotalExtras = q.TotalExtras.Add(amt)
	}

	if in.CustomSubTotal {
		q.SubTotal = in.SuppliedSubTotal
	} else {
		driverFees := in.AdditionalDriverFee.Mul(decimal.NewFromInt(int64(in.AdditionalDrivers)))
		q.SubTotal = q.BasePrice.Sub(q.Discount).Add(in.DeliveryFee).Add(in.CollectionFee).Add(driverFees)
	}

	if in.CustomNetTotal {
		q.NetTotal = in.SuppliedNetTotal
	} else {
		q.NetTotal = q.SubTotal.Add(q.TotalExtras).Add(in.Deposit)
	}

	return q, nil
}

// discountAmount resolves a discount rule against the base price. A negative
// result is clamped to zero.
func discountAmount(d Discount, basePrice, days decimal.Decimal) decimal.Decimal {
	var amt decimal.Decimal
	switch d.Policy {
	case DiscountPercentage:
		amt = basePrice.Mul(d.Value).Div(decimal.NewFromInt(100))
		if !d.Min.IsZero() && amt.LessThan(d.Min) {
			amt = d.Min
		}
		if !d.Max.IsZero() && amt.GreaterThan(d.Max) {
			amt = d.Max
		}
	case DiscountFixed:
		amt = d.Value
	case DiscountFlat:
		amt = d.Value.Mul(days)
	default:
		return decimal.Zero
	}
	if amt.IsNegative() {
		return decimal.Zero
	}
	return amt
}

func checkNonNegative(in Input) error {
	checks := []struct {
		name string
		val  decimal.Decimal
		on   bool
	}{
		{"base_price", in.SuppliedBasePrice, in.CustomBasePrice},
		{"discount", in.SuppliedDiscount, in.CustomDiscount},
		{"sub_total", in.SuppliedSubTotal, in.CustomSubTotal},
		{"net_total", in.SuppliedNetTotal, in.CustomNetTotal},
		{"delivery_fee", in.DeliveryFee, true},
		{"collection_fee", in.CollectionFee, true},
		{"deposit", in.Deposit, true},
		{"additional_driver_fee", in.AdditionalDriverFee, true},
	}
	for _, c := range checks {
		if c.on && c.val.IsNegative() {
			return domain.NewValidation(c.name, "must not be negative")
		}
	}
	for _, amt := range in.ExtraAmounts {
		if amt.IsNegative() {
			return domain.NewValidation("extras", "amounts must not be negative")
		}
	}
	return nil
}
