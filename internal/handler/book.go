package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/book-catalogue/internal/model"
	"github.com/bookhaven/book-catalogue/internal/repository"
)

// BookStore is the slice of the book repository used by the book
// endpoints.  DeleteCascade removes the book together with its reviews
// and read entries in one transaction.
type BookStore interface {
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context) ([]*model.Book, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]*model.Book, error)
	GetByID(ctx context.Context, id uint64) (*model.Book, error)
	GetByCategoryAndID(ctx context.Context, categoryID, bookID uint64) (*model.Book, error)
	GetByCategoryAndTitle(ctx context.Context, categoryID uint64, title string) (*model.Book, error)
	Update(ctx context.Context, id uint64, upd repository.BookUpdate) (*model.Book, error)
	DeleteCascade(ctx context.Context, id uint64) error
}

// categoryGetter is the category lookup the book endpoints need.
type categoryGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	GetByTopic(ctx context.Context, topic string) (*model.Category, error)
}

// BookHandler bundles dependencies for the book endpoints.
type BookHandler struct {
	Books      BookStore
	Categories categoryGetter
}

func NewBookHandler(books BookStore, categories categoryGetter) *BookHandler {
	return &BookHandler{Books: books, Categories: categories}
}

type bookReq struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Description   *string `json:"description"`
	PublishedYear *string `json:"publishedYear"`
	Image         *string `json:"image"`
}

// CreateBook handles POST /categories/:categoryID/books (admin only).
func (h *BookHandler) CreateBook(c echo.Context) error {
	categoryID, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Category not found"})
	}
	ctx := c.Request().Context()
	cat, err := h.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Category not found"})
	}

	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}
	if !allSet(req.Title, req.Author, req.Description, req.PublishedYear) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data"})
	}
	book := &model.Book{
		CategoryID:    categoryID,
		Title:         *req.Title,
		Author:        *req.Author,
		Description:   *req.Description,
		PublishedYear: *req.PublishedYear,
	}
	if req.Image != nil {
		book.Image = *req.Image
	}
	if err := h.Books.Create(ctx, book); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while adding the book", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "SUCCESS",
		"message": fmt.Sprintf("Book added successfully under category: %s", cat.Topic),
		"data":    book})
}

// ListBooks handles GET /books.
func (h *BookHandler) ListBooks(c echo.Context) error {
	result, err := h.Books.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "Error fetching books", "error": err.Error()})
	}
	if len(result) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "No records found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "successfully retrieved all books", "data": result})
}

// GetBookByCategoryTitle handles GET /books/:category/:title where
// :category is the topic name, not an id.
func (h *BookHandler) GetBookByCategoryTitle(c echo.Context) error {
	ctx := c.Request().Context()
	cat, err := h.Categories.GetByTopic(ctx, c.Param("category"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Category not found"})
	}
	book, err := h.Books.GetByCategoryAndTitle(ctx, cat.ID, c.Param("title"))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status": "FAILED", "message": "Record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "FAILED", "message": "An error occurred while retrieving the book"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Successfully retrieved book by title", "data": book})
}

// GetBook handles GET /books/:bookID.
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("bookID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	book, err := h.Books.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "successfully retrieved book by ID", "data": book})
}

// ListBooksByCategory handles GET /categories/:categoryID/books.
func (h *BookHandler) ListBooksByCategory(c echo.Context) error {
	categoryID, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "No books found for this category"})
	}
	books, err := h.Books.ListByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while retrieving books", "error": err.Error()})
	}
	if len(books) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "No books found for this category"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Successfully retrieved books for the category", "data": books})
}

// GetBookInCategory handles GET /categories/:categoryID/books/:bookID.
func (h *BookHandler) GetBookInCategory(c echo.Context) error {
	categoryID, err1 := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	bookID, err2 := strconv.ParseUint(c.Param("bookID"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Book not found"})
	}
	book, err := h.Books.GetByCategoryAndID(c.Request().Context(), categoryID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status": "FAILED", "message": "Book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while retrieving the book", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Successfully retrieved the book", "data": book})
}

// UpdateBook handles PUT /categories/:categoryID/books/:bookID (admin
// only).
func (h *BookHandler) UpdateBook(c echo.Context) error {
	return h.update(c, http.StatusBadRequest, "Record was not updated")
}

// PatchBook handles PATCH /categories/:categoryID/books/:bookID.  Any
// authenticated identity may patch a book (the observed policy; used by
// the frontend to adjust metadata).
func (h *BookHandler) PatchBook(c echo.Context) error {
	return h.update(c, http.StatusNotFound, "Record was not found")
}

func (h *BookHandler) update(c echo.Context, missingStatus int, missingMsg string) error {
	bookID, err := strconv.ParseUint(c.Param("bookID"), 10, 64)
	if err != nil {
		return c.JSON(missingStatus, echo.Map{"status": "FAILED", "message": missingMsg})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}
	book, err := h.Books.Update(c.Request().Context(), bookID, repository.BookUpdate{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
		Image:         req.Image,
	})
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(missingStatus, echo.Map{"status": "FAILED", "message": missingMsg})
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "ERROR", "message": "An error occurred while updating the record", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Record was successfully updated", "data": book})
}

// DeleteBook handles DELETE /categories/:categoryID/books/:bookID (admin
// only).  The book, its reviews and its read entries are removed in one
// transaction.
func (h *BookHandler) DeleteBook(c echo.Context) error {
	bookID, err := strconv.ParseUint(c.Param("bookID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record was not found"})
	}
	ctx := c.Request().Context()
	book, err := h.Books.GetByID(ctx, bookID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record was not found"})
	}
	if err := h.Books.DeleteCascade(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status": "FAILED", "message": "Record was not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while trying to delete the record", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Record was successfully deleted", "data": book})
}

// allSet reports whether every field is present and non-empty.
func allSet(fields ...*string) bool {
	for _, f := range fields {
		if f == nil || *f == "" {
			return false
		}
	}
	return true
}
