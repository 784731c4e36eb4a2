package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/MariaMashkovska/library-project/internal/models"
)

// TransactionType tags a ledger line with the kind of money movement it records.
type TransactionType string

const (
	TransactionDeposit TransactionType = "deposit"
	TransactionIncome  TransactionType = "income"
	TransactionFine    TransactionType = "fine"
)

// FinancialStatus is the aggregate money report across all rentals ever made.
type FinancialStatus struct {
	TotalDeposits     float64 `json:"total_deposits"`
	TotalRentalIncome float64 `json:"total_rental_income"`
	TotalFines        float64 `json:"total_fines"`
	TotalRevenue      float64 `json:"total_revenue"`
	ActiveRentals     int     `json:"active_rentals"`
	TotalRentals      int     `json:"total_rentals"`
}

// LedgerEntry is one line of the derived financial history.
type LedgerEntry struct {
	RentalID        int64           `json:"id"`
	Date            time.Time       `json:"date"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	Amount          float64         `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
}

// IssuedRental is one row of the issued-books report.
type IssuedRental struct {
	RentalID           int64     `json:"rental_id"`
	BookTitle          string    `json:"book_title"`
	BookAuthor         string    `json:"book_author"`
	ReaderName         string    `json:"reader_name"`
	IssueDate          time.Time `json:"issue_date"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	IsOverdue          bool      `json:"is_overdue"`
	DaysOverdue        int       `json:"days_overdue"`
}

// IssuedBooksReport summarizes the copies currently out on loan.
type IssuedBooksReport struct {
	TotalIssued  int            `json:"total_issued"`
	TotalOverdue int            `json:"total_overdue"`
	Rentals      []IssuedRental `json:"rentals"`
}

// FinancialStatus sums deposits across all rentals, rental income from terminal
// rentals, and fines regardless of status.
func (s *libraryService) FinancialStatus() (*FinancialStatus, error) {
	rentals, err := s.rentalRepo.List(nil)
	if err != nil {
		return nil, err
	}

	status := &FinancialStatus{TotalRentals: len(rentals)}
	for i := range rentals {
		r := &rentals[i]
		status.TotalDeposits += r.DepositPaid
		if r.IsTerminal() {
			status.TotalRentalIncome += r.RentalCost
		}
		status.TotalFines += r.FineAmount + r.DamageFine
		if r.Status == models.RentalStatusActive {
			status.ActiveRentals++
		}
	}
	status.TotalRevenue = status.TotalRentalIncome + status.TotalFines
	return status, nil
}

// FinancialHistory replays every rental into up to four ledger lines: the deposit at
// issue, and on terminal rentals the rental income plus any overdue and damage fines
// at return. Lines are sorted date-descending; same-day lines keep fetch order.
func (s *libraryService) FinancialHistory() ([]LedgerEntry, error) {
	rentals, err := s.rentalRepo.List(nil)
	if err != nil {
		return nil, err
	}
	books, readers, err := s.lookups()
	if err != nil {
		return nil, err
	}

	history := make([]LedgerEntry, 0, len(rentals))
	for i := range rentals {
		r := &rentals[i]
		title := bookTitle(books, r.BookID)
		name := readerName(readers, r.ReaderID)

		history = append(history, LedgerEntry{
			RentalID:        r.ID,
			Date:            r.IssueDate,
			Type:            "Rental",
			Description:     fmt.Sprintf("Rental: %s to %s", title, name),
			Amount:          r.DepositPaid,
			TransactionType: TransactionDeposit,
		})

		if !r.IsTerminal() {
			continue
		}
		returnDate := r.IssueDate
		if r.ActualReturnDate != nil {
			returnDate = *r.ActualReturnDate
		}
		history = append(history, LedgerEntry{
			RentalID:        r.ID,
			Date:            returnDate,
			Type:            "Return",
			Description:     fmt.Sprintf("Return: %s from %s", title, name),
			Amount:          r.RentalCost,
			TransactionType: TransactionIncome,
		})
		if r.FineAmount > 0 {
			history = append(history, LedgerEntry{
				RentalID:        r.ID,
				Date:            returnDate,
				Type:            "Fine",
				Description:     fmt.Sprintf("Overdue fine: %s", title),
				Amount:          r.FineAmount,
				TransactionType: TransactionFine,
			})
		}
		if r.DamageFine > 0 {
			history = append(history, LedgerEntry{
				RentalID:        r.ID,
				Date:            returnDate,
				Type:            "Damage Fine",
				Description:     fmt.Sprintf("Damage fine: %s", title),
				Amount:          r.DamageFine,
				TransactionType: TransactionFine,
			})
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}

// IssuedBooksReport lists copies currently on loan with overdue indication. It runs
// through ListActiveRentals, so statuses are refreshed and overdue alerts fire.
func (s *libraryService) IssuedBooksReport() (*IssuedBooksReport, error) {
	rentals, err := s.ListActiveRentals()
	if err != nil {
		return nil, err
	}
	books, readers, err := s.lookups()
	if err != nil {
		return nil, err
	}

	today := s.today()
	report := &IssuedBooksReport{
		TotalIssued: len(rentals),
		Rentals:     make([]IssuedRental, 0, len(rentals)),
	}
	for i := range rentals {
		r := &rentals[i]
		row := IssuedRental{
			RentalID:           r.ID,
			BookTitle:          bookTitle(books, r.BookID),
			ReaderName:         readerName(readers, r.ReaderID),
			IssueDate:          r.IssueDate,
			ExpectedReturnDate: r.ExpectedReturnDate,
			IsOverdue:          r.IsOverdue(today),
		}
		if b, ok := books[r.BookID]; ok {
			row.BookAuthor = b.Author
		}
		if row.IsOverdue {
			row.DaysOverdue = daysBetween(r.ExpectedReturnDate, today)
			report.TotalOverdue++
		}
		report.Rentals = append(report.Rentals, row)
	}
	return report, nil
}

// lookups loads book and reader maps for report descriptions.
func (s *libraryService) lookups() (map[int64]models.Book, map[int64]models.Reader, error) {
	books, err := s.bookRepo.List(nil)
	if err != nil {
		return nil, nil, err
	}
	readers, err := s.readerRepo.List(nil)
	if err != nil {
		return nil, nil, err
	}

	bookMap := make(map[int64]models.Book, len(books))
	for i := range books {
		bookMap[books[i].ID] = books[i]
	}
	readerMap := make(map[int64]models.Reader, len(readers))
	for i := range readers {
		readerMap[readers[i].ID] = readers[i]
	}
	return bookMap, readerMap, nil
}

// Deleted books and readers may still be referenced by old ledger lines; they render
// as "Unknown" rather than failing the report.

func bookTitle(books map[int64]models.Book, id int64) string {
	if b, ok := books[id]; ok {
		return b.Title
	}
	return "Unknown"
}

func readerName(readers map[int64]models.Reader, id int64) string {
	if r, ok := readers[id]; ok {
		return r.FullName
	}
	return "Unknown"
}
