package policies

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPricingStrategy is returned when the configured strategy name does not
// match any registered pricing algorithm.
var ErrUnknownPricingStrategy = errors.New("unknown pricing strategy")

// PricingStrategy converts a base per-day rate and a loan duration into a total
// rental charge. The active strategy is part of system configuration, selected once
// at startup via PricingFor.
type PricingStrategy interface {
	Cost(baseRate float64, days int) float64
	Name() string
}

// DailyPricing charges the base rate for every day of the loan.
type DailyPricing struct{}

func (DailyPricing) Name() string { return "daily" }

func (DailyPricing) Cost(baseRate float64, days int) float64 {
	return baseRate * float64(days)
}

// WeeklyPricing charges the base rate per started week.
type WeeklyPricing struct{}

func (WeeklyPricing) Name() string { return "weekly" }

func (WeeklyPricing) Cost(baseRate float64, days int) float64 {
	weeks := (days + 6) / 7
	return baseRate * float64(weeks)
}

// TieredPricing charges full rate for the first week, 80% for the second and 60%
// beyond day 14.
type TieredPricing struct{}

func (TieredPricing) Name() string { return "tiered" }

func (TieredPricing) Cost(baseRate float64, days int) float64 {
	switch {
	case days <= 7:
		return baseRate * float64(days)
	case days <= 14:
		return baseRate*7 + baseRate*0.8*float64(days-7)
	default:
		return baseRate*7 + baseRate*0.8*7 + baseRate*0.6*float64(days-14)
	}
}

// PricingFor resolves a configured strategy name (case-insensitive) to its algorithm.
func PricingFor(name string) (PricingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "daily":
		return DailyPricing{}, nil
	case "weekly":
		return WeeklyPricing{}, nil
	case "tiered":
		return TieredPricing{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPricingStrategy, name)
}

// RentalDays computes the chargeable duration between two dates. A zero or negative
// span is floored to one day so a rental never costs nothing.
func RentalDays(issueDate, returnDate time.Time) int {
	days := int(returnDate.Sub(issueDate).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// PriceRental applies a strategy to the span between issue and expected return.
func PriceRental(s PricingStrategy, baseRate float64, issueDate, returnDate time.Time) float64 {
	return s.Cost(baseRate, RentalDays(issueDate, returnDate))
}
