package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MariaMashkovska/library-project/internal/models"
)

type BookRepository interface {
	Create(db *gorm.DB, book *models.Book) error
	List(db *gorm.DB) ([]models.Book, error)
	ListAvailable(db *gorm.DB) ([]models.Book, error)
	GetByID(db *gorm.DB, id int64) (*models.Book, error)
	GetByIDForUpdate(db *gorm.DB, id int64) (*models.Book, error)
	Update(db *gorm.DB, book *models.Book) error
	Delete(db *gorm.DB, id int64) error
	DecrementAvailable(db *gorm.DB, id int64) (bool, error)
	IncrementAvailable(db *gorm.DB, id int64) error
}

type ReaderRepository interface {
	Create(db *gorm.DB, reader *models.Reader) error
	List(db *gorm.DB) ([]models.Reader, error)
	GetByID(db *gorm.DB, id int64) (*models.Reader, error)
	Delete(db *gorm.DB, id int64) error
}

type RentalRepository interface {
	Create(db *gorm.DB, rental *models.Rental) error
	Update(db *gorm.DB, rental *models.Rental) error
	GetByID(db *gorm.DB, id int64) (*models.Rental, error)
	GetByIDForUpdate(db *gorm.DB, id int64) (*models.Rental, error)
	List(db *gorm.DB) ([]models.Rental, error)
	ListNonTerminal(db *gorm.DB) ([]models.Rental, error)
	ListOverdue(db *gorm.DB, today time.Time) ([]models.Rental, error)
	ListByReader(db *gorm.DB, readerID int64) ([]models.Rental, error)
	CountNonTerminalByBook(db *gorm.DB, bookID int64) (int64, error)
	CountNonTerminalByReader(db *gorm.DB, readerID int64) (int64, error)
}

// nonTerminalStatuses are the rental states that still hold a copy.
var nonTerminalStatuses = []models.RentalStatus{models.RentalStatusActive, models.RentalStatusOverdue}

// concrete implementations

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Create(book).Error
}

func (r *bookRepository) List(db *gorm.DB) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	var books []models.Book
	if err := db.Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListAvailable(db *gorm.DB) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	var books []models.Book
	if err := db.Where("available_copies > 0").Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) GetByID(db *gorm.DB, id int64) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	if err := db.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) GetByIDForUpdate(db *gorm.DB, id int64) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Update(db *gorm.DB, book *models.Book) error {
	if db == nil {
		db = r.db
	}
	return db.Save(book).Error
}

func (r *bookRepository) Delete(db *gorm.DB, id int64) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Book{}, "id = ?", id).Error
}

// DecrementAvailable claims one copy with a single guarded UPDATE. The guard makes
// the check-and-decrement atomic against the store, so concurrent renters can never
// take the count below zero. Returns false when no copy was left to claim.
func (r *bookRepository) DecrementAvailable(db *gorm.DB, id int64) (bool, error) {
	if db == nil {
		db = r.db
	}
	res := db.Model(&models.Book{}).
		Where("id = ? AND available_copies > 0", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementAvailable releases one copy, never past total_copies. A release at the
// ceiling is a silent no-op.
func (r *bookRepository) IncrementAvailable(db *gorm.DB, id int64) error {
	if db == nil {
		db = r.db
	}
	return db.Model(&models.Book{}).
		Where("id = ? AND available_copies < total_copies", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).
		Error
}

type readerRepository struct {
	db *gorm.DB
}

func NewReaderRepository(db *gorm.DB) ReaderRepository {
	return &readerRepository{db: db}
}

func (r *readerRepository) Create(db *gorm.DB, reader *models.Reader) error {
	if db == nil {
		db = r.db
	}
	return db.Create(reader).Error
}

func (r *readerRepository) List(db *gorm.DB) ([]models.Reader, error) {
	if db == nil {
		db = r.db
	}
	var readers []models.Reader
	if err := db.Order("id").Find(&readers).Error; err != nil {
		return nil, err
	}
	return readers, nil
}

func (r *readerRepository) GetByID(db *gorm.DB, id int64) (*models.Reader, error) {
	if db == nil {
		db = r.db
	}
	var reader models.Reader
	if err := db.First(&reader, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reader, nil
}

func (r *readerRepository) Delete(db *gorm.DB, id int64) error {
	if db == nil {
		db = r.db
	}
	return db.Delete(&models.Reader{}, "id = ?", id).Error
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(db *gorm.DB, rental *models.Rental) error {
	if db == nil {
		db = r.db
	}
	return db.Create(rental).Error
}

func (r *rentalRepository) Update(db *gorm.DB, rental *models.Rental) error {
	if db == nil {
		db = r.db
	}
	return db.Save(rental).Error
}

func (r *rentalRepository) GetByID(db *gorm.DB, id int64) (*models.Rental, error) {
	if db == nil {
		db = r.db
	}
	var rental models.Rental
	if err := db.First(&rental, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) GetByIDForUpdate(db *gorm.DB, id int64) (*models.Rental, error) {
	if db == nil {
		db = r.db
	}
	var rental models.Rental
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rental, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) List(db *gorm.DB) ([]models.Rental, error) {
	if db == nil {
		db = r.db
	}
	var rentals []models.Rental
	if err := db.Order("id").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) ListNonTerminal(db *gorm.DB) ([]models.Rental, error) {
	if db == nil {
		db = r.db
	}
	var rentals []models.Rental
	if err := db.Where("status IN ?", nonTerminalStatuses).Order("id").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// ListOverdue filters by the derived predicate (non-terminal and past due), not by
// stored status, which may lag behind the calendar.
func (r *rentalRepository) ListOverdue(db *gorm.DB, today time.Time) ([]models.Rental, error) {
	if db == nil {
		db = r.db
	}
	var rentals []models.Rental
	err := db.
		Where("status IN ? AND expected_return_date < ?", nonTerminalStatuses, today).
		Order("id").
		Find(&rentals).Error
	if err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) ListByReader(db *gorm.DB, readerID int64) ([]models.Rental, error) {
	if db == nil {
		db = r.db
	}
	var rentals []models.Rental
	if err := db.Where("reader_id = ?", readerID).Order("id").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) CountNonTerminalByBook(db *gorm.DB, bookID int64) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.Rental{}).
		Where("book_id = ? AND status IN ?", bookID, nonTerminalStatuses).
		Count(&count).Error
	return count, err
}

func (r *rentalRepository) CountNonTerminalByReader(db *gorm.DB, readerID int64) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.Rental{}).
		Where("reader_id = ? AND status IN ?", readerID, nonTerminalStatuses).
		Count(&count).Error
	return count, err
}
