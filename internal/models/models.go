package models

import (
	"errors"
	"strings"
	"time"
)

// ─── Closed Vocabularies ──────────────────────────────────────────────────────

var (
	// ErrUnknownGenre is returned when a genre token does not match the closed enumeration.
	ErrUnknownGenre = errors.New("unknown genre")

	// ErrUnknownCategory is returned when a reader category token does not match the
	// closed enumeration.
	ErrUnknownCategory = errors.New("unknown reader category")
)

type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "Non-Fiction"
	GenreScience    Genre = "Science"
	GenreHistory    Genre = "History"
	GenreBiography  Genre = "Biography"
	GenreMystery    Genre = "Mystery"
	GenreRomance    Genre = "Romance"
	GenreFantasy    Genre = "Fantasy"
)

var genres = []Genre{
	GenreFiction, GenreNonFiction, GenreScience, GenreHistory,
	GenreBiography, GenreMystery, GenreRomance, GenreFantasy,
}

// ParseGenre matches a token case-insensitively against the closed genre vocabulary.
func ParseGenre(token string) (Genre, error) {
	for _, g := range genres {
		if strings.EqualFold(token, string(g)) {
			return g, nil
		}
	}
	return "", ErrUnknownGenre
}

// ReaderCategory is an ordered discount tier for readers.
type ReaderCategory string

const (
	CategoryRegular ReaderCategory = "Regular"
	CategoryStudent ReaderCategory = "Student"
	CategorySenior  ReaderCategory = "Senior"
	CategoryVIP     ReaderCategory = "VIP"
)

var categories = []ReaderCategory{CategoryRegular, CategoryStudent, CategorySenior, CategoryVIP}

// ParseCategory matches a token case-insensitively against the closed category vocabulary.
func ParseCategory(token string) (ReaderCategory, error) {
	for _, c := range categories {
		if strings.EqualFold(token, string(c)) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

type RentalStatus string

const (
	RentalStatusActive   RentalStatus = "Active"
	RentalStatusOverdue  RentalStatus = "Overdue"
	RentalStatusReturned RentalStatus = "Returned"
	RentalStatusDamaged  RentalStatus = "Damaged"
)

// ─── Entities ─────────────────────────────────────────────────────────────────

type Book struct {
	ID              int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string  `gorm:"size:255;not null" json:"title"`
	Author          string  `gorm:"size:255;not null" json:"author"`
	Genre           Genre   `gorm:"size:32;not null" json:"genre"`
	DepositCost     float64 `gorm:"not null" json:"deposit_cost"`
	BaseRentalCost  float64 `gorm:"not null" json:"base_rental_cost"`
	TotalCopies     int     `gorm:"not null" json:"total_copies"`
	AvailableCopies int     `gorm:"not null" json:"available_copies"`
	Value           float64 `gorm:"not null" json:"value"`
}

// IsAvailable reports whether at least one copy can be rented.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// RentCopy claims one available copy. It returns false when none is left.
func (b *Book) RentCopy() bool {
	if !b.IsAvailable() {
		return false
	}
	b.AvailableCopies--
	return true
}

// ReturnCopy releases one copy back to the pool, never exceeding TotalCopies.
func (b *Book) ReturnCopy() {
	if b.AvailableCopies < b.TotalCopies {
		b.AvailableCopies++
	}
}

type Reader struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string         `gorm:"size:255;not null" json:"full_name"`
	Address   string         `gorm:"size:500;not null" json:"address"`
	Telephone string         `gorm:"size:50;not null" json:"telephone"`
	Category  ReaderCategory `gorm:"size:16;not null" json:"category"`
}

type Rental struct {
	ID                 int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID             int64        `gorm:"not null;index" json:"book_id"`
	ReaderID           int64        `gorm:"not null;index" json:"reader_id"`
	IssueDate          time.Time    `gorm:"type:date;not null" json:"issue_date"`
	ExpectedReturnDate time.Time    `gorm:"type:date;not null" json:"expected_return_date"`
	ActualReturnDate   *time.Time   `gorm:"type:date" json:"actual_return_date"`
	Status             RentalStatus `gorm:"size:16;not null;index" json:"status"`
	DepositPaid        float64      `gorm:"not null" json:"deposit_paid"`
	RentalCost         float64      `gorm:"not null" json:"rental_cost"`
	FineAmount         float64      `gorm:"not null;default:0" json:"fine_amount"`
	DamageFine         float64      `gorm:"not null;default:0" json:"damage_fine"`
}

// IsTerminal reports whether the rental has reached a final state. Terminal rentals
// never transition again.
func (r *Rental) IsTerminal() bool {
	return r.Status == RentalStatusReturned || r.Status == RentalStatusDamaged
}

// IsOverdue derives the overdue predicate from today's date. Stored status may lag;
// callers must not trust Status for this.
func (r *Rental) IsOverdue(today time.Time) bool {
	if r.IsTerminal() {
		return false
	}
	return today.After(r.ExpectedReturnDate)
}

// RefreshStatus reclassifies Active as Overdue based on today's date. It returns true
// when the status actually flipped.
func (r *Rental) RefreshStatus(today time.Time) bool {
	if r.Status == RentalStatusActive && r.IsOverdue(today) {
		r.Status = RentalStatusOverdue
		return true
	}
	return false
}
