package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MariaMashkovska/library-project/internal/models"
	"github.com/MariaMashkovska/library-project/internal/policies"
	"github.com/MariaMashkovska/library-project/internal/services"
)

type LibraryHandler struct {
	svc               services.LibraryService
	defaultRentalDays int
}

func RegisterRoutes(r *gin.Engine, svc services.LibraryService, defaultRentalDays int) {
	h := &LibraryHandler{svc: svc, defaultRentalDays: defaultRentalDays}

	r.Use(requestID())

	api := r.Group("/api")

	// Catalogue
	api.GET("/books", h.listBooks)
	api.POST("/books", h.createBook)
	api.GET("/books/:id", h.getBook)
	api.DELETE("/books/:id", h.deleteBook)

	// Readers
	api.GET("/readers", h.listReaders)
	api.POST("/readers", h.createReader)
	api.GET("/readers/:id", h.getReader)
	api.DELETE("/readers/:id", h.deleteReader)
	api.GET("/readers/:id/rentals", h.listReaderRentals)

	// Rentals
	api.POST("/rentals", h.createRental)
	api.GET("/rentals", h.listRentals)
	api.POST("/rentals/:id/return", h.returnRental)

	// Reports
	api.GET("/reports/available-books", h.reportAvailableBooks)
	api.GET("/reports/issued-books", h.reportIssuedBooks)
	api.GET("/reports/financial-status", h.reportFinancialStatus)
	api.GET("/reports/financial-history", h.reportFinancialHistory)
}

// requestID stamps every request with an id for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// abortWithError maps engine errors onto HTTP statuses: NotFound→404,
// InvalidState→409, Validation→400, anything else→500.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrBookNotFound),
		errors.Is(err, services.ErrReaderNotFound),
		errors.Is(err, services.ErrRentalNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrNoAvailableCopies),
		errors.Is(err, services.ErrRentalAlreadyClosed),
		errors.Is(err, services.ErrBookHasOpenRentals),
		errors.Is(err, services.ErrReaderHasOpenRentals):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidBookValue),
		errors.Is(err, services.ErrInvalidCopyCount),
		errors.Is(err, services.ErrInvalidRentalDays),
		errors.Is(err, models.ErrUnknownGenre),
		errors.Is(err, models.ErrUnknownCategory),
		errors.Is(err, policies.ErrUnknownTier):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ─── Books ────────────────────────────────────────────────────────────────────

type createBookRequest struct {
	Title  string  `json:"title" binding:"required"`
	Author string  `json:"author" binding:"required"`
	Genre  string  `json:"genre" binding:"required"`
	Value  float64 `json:"value" binding:"required"`
	Copies int     `json:"copies" binding:"required"`
	Tier   string  `json:"tier"`
}

func (h *LibraryHandler) createBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := models.ParseGenre(req.Genre)
	if err != nil {
		abortWithError(c, err)
		return
	}
	tier, err := policies.ParseTier(req.Tier)
	if err != nil {
		abortWithError(c, err)
		return
	}

	book, err := h.svc.AddBook(req.Title, req.Author, genre, tier, req.Value, req.Copies)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *LibraryHandler) listBooks(c *gin.Context) {
	var (
		books []models.Book
		err   error
	)
	if c.Query("available_only") == "true" {
		books, err = h.svc.ListAvailableBooks()
	} else {
		books, err = h.svc.ListBooks()
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *LibraryHandler) getBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	book, err := h.svc.GetBook(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *LibraryHandler) deleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteBook(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}

// ─── Readers ──────────────────────────────────────────────────────────────────

type createReaderRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	Telephone string `json:"telephone" binding:"required"`
	Category  string `json:"category" binding:"required"`
}

func (h *LibraryHandler) createReader(c *gin.Context) {
	var req createReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		abortWithError(c, err)
		return
	}

	reader, err := h.svc.AddReader(req.FullName, req.Address, req.Telephone, category)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reader)
}

func (h *LibraryHandler) listReaders(c *gin.Context) {
	readers, err := h.svc.ListReaders()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, readers)
}

func (h *LibraryHandler) getReader(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	reader, err := h.svc.GetReader(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reader)
}

func (h *LibraryHandler) deleteReader(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteReader(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reader deleted"})
}

func (h *LibraryHandler) listReaderRentals(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rentals, err := h.svc.ListReaderRentals(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

// ─── Rentals ──────────────────────────────────────────────────────────────────

type createRentalRequest struct {
	BookID     int64 `json:"book_id" binding:"required"`
	ReaderID   int64 `json:"reader_id" binding:"required"`
	RentalDays int   `json:"rental_days"`
}

func (h *LibraryHandler) createRental(c *gin.Context) {
	var req createRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	days := req.RentalDays
	if days == 0 {
		days = h.defaultRentalDays
	}

	rental, err := h.svc.RentBook(req.BookID, req.ReaderID, days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rental)
}

func (h *LibraryHandler) listRentals(c *gin.Context) {
	var (
		rentals []models.Rental
		err     error
	)
	switch c.Query("status") {
	case "active":
		rentals, err = h.svc.ListActiveRentals()
	case "overdue":
		rentals, err = h.svc.ListOverdueRentals()
	default:
		rentals, err = h.svc.ListRentals()
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

type returnRentalRequest struct {
	DamageLevel string `json:"damage_level"`
}

func (h *LibraryHandler) returnRental(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Body is optional; a plain return carries no damage report.
	var req returnRentalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rental, err := h.svc.ReturnBook(id, req.DamageLevel)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rental)
}

// ─── Reports ──────────────────────────────────────────────────────────────────

func (h *LibraryHandler) reportAvailableBooks(c *gin.Context) {
	books, err := h.svc.ListAvailableBooks()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_available": len(books),
		"books":           books,
	})
}

func (h *LibraryHandler) reportIssuedBooks(c *gin.Context) {
	report, err := h.svc.IssuedBooksReport()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *LibraryHandler) reportFinancialStatus(c *gin.Context) {
	status, err := h.svc.FinancialStatus()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *LibraryHandler) reportFinancialHistory(c *gin.Context) {
	history, err := h.svc.FinancialHistory()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
