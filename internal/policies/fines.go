package policies

import "strings"

const (
	// overdueFinePerDay is the linear penalty charged per day past the expected
	// return date.
	overdueFinePerDay = 2.0

	// overdueFineCapFactor caps the overdue fine at this multiple of the rental
	// cost, so fines on long-abandoned loans stay bounded.
	overdueFineCapFactor = 5.0
)

// FineCalculator computes return-time penalties. Overdue and damage fines are
// independent operations; a single return may incur both.
type FineCalculator interface {
	OverdueFine(daysOverdue int, rentalCost float64) float64
	DamageFine(bookValue float64, severity string) float64
}

// StandardFineCalculator is the default fine schedule.
type StandardFineCalculator struct{}

// damageRates maps a severity token to the fraction of the book's value charged.
// An unrecognized token charges nothing. That silent zero is an observable part of
// the contract, kept on purpose.
var damageRates = map[string]float64{
	"minor":     0.1,
	"moderate":  0.4,
	"severe":    0.7,
	"destroyed": 1.0,
}

func (StandardFineCalculator) OverdueFine(daysOverdue int, rentalCost float64) float64 {
	fine := float64(daysOverdue) * overdueFinePerDay
	limit := rentalCost * overdueFineCapFactor
	if fine > limit {
		return limit
	}
	return fine
}

func (StandardFineCalculator) DamageFine(bookValue float64, severity string) float64 {
	return bookValue * damageRates[strings.ToLower(severity)]
}
