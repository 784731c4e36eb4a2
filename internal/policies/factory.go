package policies

import (
	"errors"
	"strings"

	"github.com/MariaMashkovska/library-project/internal/models"
)

// ErrUnknownTier is returned when a provisioning tier token does not resolve.
var ErrUnknownTier = errors.New("unknown book tier")

// BookTier selects a provisioning variant for new books.
type BookTier string

const (
	TierStandard BookTier = "standard"
	TierPremium  BookTier = "premium"
)

// ParseTier matches a tier token case-insensitively. An empty token means standard.
func ParseTier(token string) (BookTier, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", string(TierStandard):
		return TierStandard, nil
	case string(TierPremium):
		return TierPremium, nil
	}
	return "", ErrUnknownTier
}

// BookFactory derives a Book's deposit and base rental cost from its value.
// Inputs are caller-validated: value > 0 and copies >= 1. The produced book has no
// identity; the database assigns it on insert.
type BookFactory interface {
	NewBook(title, author string, genre models.Genre, value float64, copies int) *models.Book
}

// StandardBookFactory prices regular stock: deposit 50% of value, base rental 5%
// of value per day.
type StandardBookFactory struct{}

func (StandardBookFactory) NewBook(title, author string, genre models.Genre, value float64, copies int) *models.Book {
	return &models.Book{
		Title:           title,
		Author:          author,
		Genre:           genre,
		DepositCost:     value * 0.5,
		BaseRentalCost:  value * 0.05,
		TotalCopies:     copies,
		AvailableCopies: copies,
		Value:           value,
	}
}

// PremiumBookFactory prices high-value stock: deposit 70% of value, base rental 8%
// of value per day.
type PremiumBookFactory struct{}

func (PremiumBookFactory) NewBook(title, author string, genre models.Genre, value float64, copies int) *models.Book {
	return &models.Book{
		Title:           title,
		Author:          author,
		Genre:           genre,
		DepositCost:     value * 0.7,
		BaseRentalCost:  value * 0.08,
		TotalCopies:     copies,
		AvailableCopies: copies,
		Value:           value,
	}
}

// FactoryFor resolves a tier to its provisioning factory.
func FactoryFor(tier BookTier) BookFactory {
	if tier == TierPremium {
		return PremiumBookFactory{}
	}
	return StandardBookFactory{}
}
