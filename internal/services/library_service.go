package services

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/MariaMashkovska/library-project/internal/models"
	"github.com/MariaMashkovska/library-project/internal/notify"
	"github.com/MariaMashkovska/library-project/internal/policies"
	"github.com/MariaMashkovska/library-project/internal/repositories"
)

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

// Not-found failures: a referenced identifier does not resolve.
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrReaderNotFound = errors.New("reader not found")
	ErrRentalNotFound = errors.New("rental not found")
)

// Invalid-state failures: the operation is rejected and nothing is mutated.
var (
	// ErrNoAvailableCopies is returned when renting a book with zero available copies.
	ErrNoAvailableCopies = errors.New("no available copies")

	// ErrRentalAlreadyClosed is returned when a return is attempted on a rental that
	// already reached a terminal state.
	ErrRentalAlreadyClosed = errors.New("rental already returned or damaged")

	// ErrBookHasOpenRentals / ErrReaderHasOpenRentals guard deletion of entities still
	// referenced by non-terminal rentals.
	ErrBookHasOpenRentals   = errors.New("book has active rentals")
	ErrReaderHasOpenRentals = errors.New("reader has active rentals")
)

// Validation failures: rejected before any domain object is constructed.
var (
	ErrInvalidBookValue  = errors.New("book value must be positive")
	ErrInvalidCopyCount  = errors.New("copy count must be at least 1")
	ErrInvalidRentalDays = errors.New("rental days must be at least 1")
)

// ─── Service Interface ────────────────────────────────────────────────────────

// LibraryService is the rental engine: it owns the rental lifecycle, the monetary
// calculations and the derived financial reports.
type LibraryService interface {
	AddBook(title, author string, genre models.Genre, tier policies.BookTier, value float64, copies int) (*models.Book, error)
	GetBook(id int64) (*models.Book, error)
	ListBooks() ([]models.Book, error)
	ListAvailableBooks() ([]models.Book, error)
	DeleteBook(id int64) error

	AddReader(fullName, address, telephone string, category models.ReaderCategory) (*models.Reader, error)
	GetReader(id int64) (*models.Reader, error)
	ListReaders() ([]models.Reader, error)
	DeleteReader(id int64) error

	RentBook(bookID, readerID int64, days int) (*models.Rental, error)
	ReturnBook(rentalID int64, damageSeverity string) (*models.Rental, error)

	ListRentals() ([]models.Rental, error)
	ListActiveRentals() ([]models.Rental, error)
	ListOverdueRentals() ([]models.Rental, error)
	ListReaderRentals(readerID int64) ([]models.Rental, error)

	FinancialStatus() (*FinancialStatus, error)
	FinancialHistory() ([]LedgerEntry, error)
	IssuedBooksReport() (*IssuedBooksReport, error)
}

// Transactor runs a function inside a database transaction. *gorm.DB satisfies it;
// tests substitute a pass-through.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// ─── Implementation ───────────────────────────────────────────────────────────

type libraryService struct {
	db         Transactor
	bookRepo   repositories.BookRepository
	readerRepo repositories.ReaderRepository
	rentalRepo repositories.RentalRepository

	pricing  policies.PricingStrategy
	discount policies.DiscountPolicy
	fines    policies.FineCalculator
	hub      *notify.Hub

	now func() time.Time
}

// NewLibraryService wires the engine with its collaborators and policy selections.
// Build it once at process start and hand the value to the request boundary.
func NewLibraryService(
	db Transactor,
	bookRepo repositories.BookRepository,
	readerRepo repositories.ReaderRepository,
	rentalRepo repositories.RentalRepository,
	pricing policies.PricingStrategy,
	fines policies.FineCalculator,
	hub *notify.Hub,
) LibraryService {
	return &libraryService{
		db:         db,
		bookRepo:   bookRepo,
		readerRepo: readerRepo,
		rentalRepo: rentalRepo,
		pricing:    pricing,
		discount:   policies.NewCategoryDiscount(),
		fines:      fines,
		hub:        hub,
		now:        time.Now,
	}
}

// today truncates the clock to a calendar date (midnight UTC). All lifecycle math is
// calendar-day based.
func (s *libraryService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// daysBetween counts full calendar days from a to b for date-truncated inputs.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// ─── Book Management ──────────────────────────────────────────────────────────

// AddBook validates the inputs, derives deposit and rental costs through the tier's
// provisioning factory and persists the new book with all copies available.
func (s *libraryService) AddBook(title, author string, genre models.Genre, tier policies.BookTier, value float64, copies int) (*models.Book, error) {
	if value <= 0 {
		return nil, ErrInvalidBookValue
	}
	if copies < 1 {
		return nil, ErrInvalidCopyCount
	}

	book := policies.FactoryFor(tier).NewBook(title, author, genre, value, copies)
	if err := s.bookRepo.Create(nil, book); err != nil {
		log.Printf("[ERROR] AddBook: failed to create book record: %v", err)
		return nil, err
	}
	log.Printf("[INFO] AddBook: created book %q (id=%d, tier=%s) with %d copies", book.Title, book.ID, tier, copies)
	return book, nil
}

func (s *libraryService) GetBook(id int64) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *libraryService) ListBooks() ([]models.Book, error) {
	return s.bookRepo.List(nil)
}

func (s *libraryService) ListAvailableBooks() ([]models.Book, error) {
	return s.bookRepo.ListAvailable(nil)
}

// DeleteBook removes a book, rejected while any non-terminal rental still references
// it. Rentals themselves are never deleted; financial history depends on them.
func (s *libraryService) DeleteBook(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.bookRepo.GetByID(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		open, err := s.rentalRepo.CountNonTerminalByBook(tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			log.Printf("[WARN] DeleteBook: book %d has %d open rentals, refusing", id, open)
			return ErrBookHasOpenRentals
		}
		if err := s.bookRepo.Delete(tx, id); err != nil {
			log.Printf("[ERROR] DeleteBook: failed to delete book %d: %v", id, err)
			return err
		}
		log.Printf("[INFO] DeleteBook: deleted book %d", id)
		return nil
	})
}

// ─── Reader Management ────────────────────────────────────────────────────────

func (s *libraryService) AddReader(fullName, address, telephone string, category models.ReaderCategory) (*models.Reader, error) {
	reader := &models.Reader{
		FullName:  fullName,
		Address:   address,
		Telephone: telephone,
		Category:  category,
	}
	if err := s.readerRepo.Create(nil, reader); err != nil {
		log.Printf("[ERROR] AddReader: failed to create reader record: %v", err)
		return nil, err
	}
	log.Printf("[INFO] AddReader: registered reader %q (id=%d, category=%s)", reader.FullName, reader.ID, category)
	return reader, nil
}

func (s *libraryService) GetReader(id int64) (*models.Reader, error) {
	reader, err := s.readerRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReaderNotFound
		}
		return nil, err
	}
	return reader, nil
}

func (s *libraryService) ListReaders() ([]models.Reader, error) {
	return s.readerRepo.List(nil)
}

func (s *libraryService) DeleteReader(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.readerRepo.GetByID(tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReaderNotFound
			}
			return err
		}
		open, err := s.rentalRepo.CountNonTerminalByReader(tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			log.Printf("[WARN] DeleteReader: reader %d has %d open rentals, refusing", id, open)
			return ErrReaderHasOpenRentals
		}
		if err := s.readerRepo.Delete(tx, id); err != nil {
			log.Printf("[ERROR] DeleteReader: failed to delete reader %d: %v", id, err)
			return err
		}
		log.Printf("[INFO] DeleteReader: deleted reader %d", id)
		return nil
	})
}

// ─── Rent ─────────────────────────────────────────────────────────────────────

// RentBook issues a copy of a book to a reader for the given number of days.
//
// All steps run in one transaction: resolve reader and book, price the loan
// (pricing strategy, then category discount), claim a copy with an atomic guarded
// decrement, and persist the new rental. The guarded decrement is what enforces
// at-most-one successful rent per available copy under concurrent callers.
func (s *libraryService) RentBook(bookID, readerID int64, days int) (*models.Rental, error) {
	if days < 1 {
		return nil, ErrInvalidRentalDays
	}

	var rental *models.Rental

	err := s.db.Transaction(func(tx *gorm.DB) error {
		reader, err := s.readerRepo.GetByID(tx, readerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReaderNotFound
			}
			return err
		}

		book, err := s.bookRepo.GetByIDForUpdate(tx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		issueDate := s.today()
		expectedReturn := issueDate.AddDate(0, 0, days)

		cost := policies.PriceRental(s.pricing, book.BaseRentalCost, issueDate, expectedReturn)
		cost = s.discount.Apply(cost, reader.Category)

		claimed, err := s.bookRepo.DecrementAvailable(tx, bookID)
		if err != nil {
			log.Printf("[ERROR] RentBook: failed to claim copy of book %d: %v", bookID, err)
			return err
		}
		if !claimed {
			log.Printf("[WARN] RentBook: no available copies of book %d for reader %d", bookID, readerID)
			return ErrNoAvailableCopies
		}

		rental = &models.Rental{
			BookID:             bookID,
			ReaderID:           readerID,
			IssueDate:          issueDate,
			ExpectedReturnDate: expectedReturn,
			Status:             models.RentalStatusActive,
			DepositPaid:        book.DepositCost,
			RentalCost:         cost,
		}
		if err := s.rentalRepo.Create(tx, rental); err != nil {
			log.Printf("[ERROR] RentBook: failed to create rental record: %v", err)
			return err
		}
		log.Printf("[INFO] RentBook: rental %d issued (book=%d, reader=%d, cost=%.2f, due=%s)",
			rental.ID, bookID, readerID, cost, expectedReturn.Format("2006-01-02"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// ─── Return ───────────────────────────────────────────────────────────────────

// ReturnBook closes a rental.
//
// Steps (one transaction): lock the rental row, guard against double-return, compute
// the overdue fine when the derived status is past due, compute the damage fine when
// a severity is reported (status Damaged) otherwise mark Returned, stamp the actual
// return date, persist the rental and release the copy back to the book.
func (s *libraryService) ReturnBook(rentalID int64, damageSeverity string) (*models.Rental, error) {
	var updated *models.Rental

	err := s.db.Transaction(func(tx *gorm.DB) error {
		rental, err := s.rentalRepo.GetByIDForUpdate(tx, rentalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRentalNotFound
			}
			return err
		}

		if rental.IsTerminal() {
			log.Printf("[WARN] ReturnBook: rental %d already closed (status=%s)", rentalID, rental.Status)
			return ErrRentalAlreadyClosed
		}

		book, err := s.bookRepo.GetByID(tx, rental.BookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		returnDate := s.today()

		if rental.IsOverdue(returnDate) {
			daysOverdue := daysBetween(rental.ExpectedReturnDate, returnDate)
			rental.FineAmount = s.fines.OverdueFine(daysOverdue, rental.RentalCost)
			log.Printf("[INFO] ReturnBook: rental %d is %d days overdue, fine=%.2f", rentalID, daysOverdue, rental.FineAmount)
		}

		if damageSeverity != "" {
			rental.DamageFine = s.fines.DamageFine(book.Value, damageSeverity)
			rental.Status = models.RentalStatusDamaged
			log.Printf("[INFO] ReturnBook: rental %d returned damaged (severity=%s, fine=%.2f)", rentalID, damageSeverity, rental.DamageFine)
		} else {
			rental.Status = models.RentalStatusReturned
		}
		rental.ActualReturnDate = &returnDate

		if err := s.rentalRepo.Update(tx, rental); err != nil {
			log.Printf("[ERROR] ReturnBook: failed to update rental %d: %v", rentalID, err)
			return err
		}
		if err := s.bookRepo.IncrementAvailable(tx, rental.BookID); err != nil {
			log.Printf("[ERROR] ReturnBook: failed to release copy of book %d: %v", rental.BookID, err)
			return err
		}

		updated = rental
		log.Printf("[INFO] ReturnBook: rental %d closed (status=%s)", rentalID, rental.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ─── Rental Queries ───────────────────────────────────────────────────────────

func (s *libraryService) ListRentals() ([]models.Rental, error) {
	return s.rentalRepo.List(nil)
}

// ListActiveRentals returns every non-terminal rental, refreshing its derived status
// on the way out. A rental that flips Active→Overdue has the flip persisted, and the
// overdue event is raised for every rental past due. Persist or notify failures never
// abort the read.
func (s *libraryService) ListActiveRentals() ([]models.Rental, error) {
	rentals, err := s.rentalRepo.ListNonTerminal(nil)
	if err != nil {
		return nil, err
	}

	today := s.today()
	for i := range rentals {
		r := &rentals[i]
		if r.RefreshStatus(today) {
			if err := s.rentalRepo.Update(nil, r); err != nil {
				log.Printf("[WARN] ListActiveRentals: failed to persist overdue flip for rental %d: %v", r.ID, err)
			}
		}
		if r.IsOverdue(today) {
			s.hub.Notify(r, notify.EventOverdue)
		}
	}
	return rentals, nil
}

// ListOverdueRentals filters strictly by the derived predicate, independent of stored
// status.
func (s *libraryService) ListOverdueRentals() ([]models.Rental, error) {
	today := s.today()
	rentals, err := s.rentalRepo.ListOverdue(nil, today)
	if err != nil {
		return nil, err
	}
	for i := range rentals {
		rentals[i].RefreshStatus(today)
	}
	return rentals, nil
}

func (s *libraryService) ListReaderRentals(readerID int64) ([]models.Rental, error) {
	return s.rentalRepo.ListByReader(nil, readerID)
}
