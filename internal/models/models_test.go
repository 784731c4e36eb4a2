package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenre(t *testing.T) {
	g, err := ParseGenre("non-fiction")
	require.NoError(t, err)
	assert.Equal(t, GenreNonFiction, g)

	g, err = ParseGenre("FANTASY")
	require.NoError(t, err)
	assert.Equal(t, GenreFantasy, g)

	_, err = ParseGenre("Cookbook")
	assert.ErrorIs(t, err, ErrUnknownGenre)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("vip")
	require.NoError(t, err)
	assert.Equal(t, CategoryVIP, c)

	_, err = ParseCategory("Gold")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestBookCopyAccounting(t *testing.T) {
	book := &Book{TotalCopies: 2, AvailableCopies: 2}

	assert.True(t, book.RentCopy())
	assert.True(t, book.RentCopy())
	assert.Equal(t, 0, book.AvailableCopies)

	assert.False(t, book.RentCopy(), "renting past zero must fail")
	assert.Equal(t, 0, book.AvailableCopies)

	book.ReturnCopy()
	book.ReturnCopy()
	assert.Equal(t, 2, book.AvailableCopies)

	book.ReturnCopy()
	assert.Equal(t, 2, book.AvailableCopies, "returns never exceed total copies")
}

func TestRentalIsOverdue(t *testing.T) {
	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	rental := &Rental{Status: RentalStatusActive, ExpectedReturnDate: due}

	assert.False(t, rental.IsOverdue(due), "due date itself is not overdue")
	assert.True(t, rental.IsOverdue(due.AddDate(0, 0, 1)))

	rental.Status = RentalStatusReturned
	assert.False(t, rental.IsOverdue(due.AddDate(0, 0, 30)), "terminal rentals are never overdue")
}

func TestRentalRefreshStatus(t *testing.T) {
	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	rental := &Rental{Status: RentalStatusActive, ExpectedReturnDate: due}

	assert.False(t, rental.RefreshStatus(due))
	assert.Equal(t, RentalStatusActive, rental.Status)

	assert.True(t, rental.RefreshStatus(due.AddDate(0, 0, 2)))
	assert.Equal(t, RentalStatusOverdue, rental.Status)

	// Refreshing again is a no-op: already Overdue.
	assert.False(t, rental.RefreshStatus(due.AddDate(0, 0, 3)))
	assert.Equal(t, RentalStatusOverdue, rental.Status)
}

func TestRentalIsTerminal(t *testing.T) {
	assert.False(t, (&Rental{Status: RentalStatusActive}).IsTerminal())
	assert.False(t, (&Rental{Status: RentalStatusOverdue}).IsTerminal())
	assert.True(t, (&Rental{Status: RentalStatusReturned}).IsTerminal())
	assert.True(t, (&Rental{Status: RentalStatusDamaged}).IsTerminal())
}
