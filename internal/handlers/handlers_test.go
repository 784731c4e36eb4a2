package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MariaMashkovska/library-project/internal/models"
	"github.com/MariaMashkovska/library-project/internal/policies"
	"github.com/MariaMashkovska/library-project/internal/services"
)

// svcStub implements services.LibraryService; tests fill in only the calls they
// expect to see.
type svcStub struct {
	addBookFn    func(title, author string, genre models.Genre, tier policies.BookTier, value float64, copies int) (*models.Book, error)
	getBookFn    func(id int64) (*models.Book, error)
	rentBookFn   func(bookID, readerID int64, days int) (*models.Rental, error)
	returnBookFn func(rentalID int64, severity string) (*models.Rental, error)
	deleteBookFn func(id int64) error
}

func (s *svcStub) AddBook(title, author string, genre models.Genre, tier policies.BookTier, value float64, copies int) (*models.Book, error) {
	return s.addBookFn(title, author, genre, tier, value, copies)
}
func (s *svcStub) GetBook(id int64) (*models.Book, error)      { return s.getBookFn(id) }
func (s *svcStub) ListBooks() ([]models.Book, error)           { return nil, nil }
func (s *svcStub) ListAvailableBooks() ([]models.Book, error)  { return nil, nil }
func (s *svcStub) DeleteBook(id int64) error                   { return s.deleteBookFn(id) }
func (s *svcStub) AddReader(fullName, address, telephone string, category models.ReaderCategory) (*models.Reader, error) {
	return nil, nil
}
func (s *svcStub) GetReader(id int64) (*models.Reader, error) { return nil, nil }
func (s *svcStub) ListReaders() ([]models.Reader, error)      { return nil, nil }
func (s *svcStub) DeleteReader(id int64) error                { return nil }
func (s *svcStub) RentBook(bookID, readerID int64, days int) (*models.Rental, error) {
	return s.rentBookFn(bookID, readerID, days)
}
func (s *svcStub) ReturnBook(rentalID int64, severity string) (*models.Rental, error) {
	return s.returnBookFn(rentalID, severity)
}
func (s *svcStub) ListRentals() ([]models.Rental, error)                   { return nil, nil }
func (s *svcStub) ListActiveRentals() ([]models.Rental, error)             { return nil, nil }
func (s *svcStub) ListOverdueRentals() ([]models.Rental, error)            { return nil, nil }
func (s *svcStub) ListReaderRentals(readerID int64) ([]models.Rental, error) {
	return nil, nil
}
func (s *svcStub) FinancialStatus() (*services.FinancialStatus, error) {
	return &services.FinancialStatus{}, nil
}
func (s *svcStub) FinancialHistory() ([]services.LedgerEntry, error) { return nil, nil }
func (s *svcStub) IssuedBooksReport() (*services.IssuedBooksReport, error) {
	return &services.IssuedBooksReport{}, nil
}

func newRouter(stub *svcStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, stub, 14)
	return r
}

func TestCreateBook(t *testing.T) {
	stub := &svcStub{
		addBookFn: func(title, author string, genre models.Genre, tier policies.BookTier, value float64, copies int) (*models.Book, error) {
			assert.Equal(t, "Dune", title)
			assert.Equal(t, models.GenreFantasy, genre)
			assert.Equal(t, policies.TierPremium, tier)
			return &models.Book{ID: 1, Title: title}, nil
		},
	}
	r := newRouter(stub)

	body := `{"title":"Dune","author":"Frank Herbert","genre":"fantasy","value":100,"copies":2,"tier":"premium"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBook_UnknownGenre(t *testing.T) {
	r := newRouter(&svcStub{})

	body := `{"title":"Dune","author":"Frank Herbert","genre":"cookbook","value":100,"copies":2}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBook_NotFound(t *testing.T) {
	stub := &svcStub{
		getBookFn: func(id int64) (*models.Book, error) { return nil, services.ErrBookNotFound },
	}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRental_DefaultsLoanPeriod(t *testing.T) {
	stub := &svcStub{
		rentBookFn: func(bookID, readerID int64, days int) (*models.Rental, error) {
			assert.Equal(t, 14, days)
			return &models.Rental{ID: 9, BookID: bookID, ReaderID: readerID}, nil
		},
	}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(`{"book_id":1,"reader_id":2}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var rental models.Rental
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rental))
	assert.Equal(t, int64(9), rental.ID)
}

func TestCreateRental_NoCopiesConflict(t *testing.T) {
	stub := &svcStub{
		rentBookFn: func(bookID, readerID int64, days int) (*models.Rental, error) {
			return nil, services.ErrNoAvailableCopies
		},
	}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader(`{"book_id":1,"reader_id":2,"rental_days":7}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReturnRental_WithoutBody(t *testing.T) {
	stub := &svcStub{
		returnBookFn: func(rentalID int64, severity string) (*models.Rental, error) {
			assert.Equal(t, int64(3), rentalID)
			assert.Empty(t, severity)
			return &models.Rental{ID: rentalID, Status: models.RentalStatusReturned}, nil
		},
	}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rentals/3/return", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReturnRental_DamageReport(t *testing.T) {
	stub := &svcStub{
		returnBookFn: func(rentalID int64, severity string) (*models.Rental, error) {
			assert.Equal(t, "severe", severity)
			return &models.Rental{ID: rentalID, Status: models.RentalStatusDamaged}, nil
		},
	}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rentals/3/return", strings.NewReader(`{"damage_level":"severe"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteBook_OpenRentalsConflict(t *testing.T) {
	stub := &svcStub{
		deleteBookFn: func(id int64) error { return services.ErrBookHasOpenRentals },
	}
	r := newRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/books/1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	r := newRouter(&svcStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
