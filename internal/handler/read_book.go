package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/book-catalogue/internal/model"
	"github.com/bookhaven/book-catalogue/internal/repository"
)

// ReadStore is the slice of the read-tracking repository used by the read
// endpoints.  The store enforces at-most-one entry per (user, book) pair.
type ReadStore interface {
	Create(ctx context.Context, userID, bookID uint64) (*model.ReadBook, error)
	GetByUserAndBook(ctx context.Context, userID, bookID uint64) (*model.ReadEntry, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.ReadEntry, error)
	Delete(ctx context.Context, userID, bookID uint64) (*model.ReadBook, error)
}

// ReadBookHandler bundles dependencies for the read-tracking endpoints.
type ReadBookHandler struct {
	Reads ReadStore
}

func NewReadBookHandler(reads ReadStore) *ReadBookHandler {
	return &ReadBookHandler{Reads: reads}
}

type markReadReq struct {
	UserID uint64 `json:"userId"`
	BookID uint64 `json:"bookId"`
}

// MarkRead handles POST /reads.  Marking an already-read book is
// idempotent: the existing entry is returned with a 200 instead of a
// second row being created.
func (h *ReadBookHandler) MarkRead(c echo.Context) error {
	var req markReadReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 || req.BookID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "userId and bookId are required"})
	}
	ctx := c.Request().Context()
	entry, err := h.Reads.Create(ctx, req.UserID, req.BookID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRead) {
			existing, gerr := h.Reads.GetByUserAndBook(ctx, req.UserID, req.BookID)
			if gerr != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error marking book as read.", "error": gerr.Error()})
			}
			return c.JSON(http.StatusOK, echo.Map{"message": "Book already marked as read by user.", "data": existing})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error marking book as read.", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Book marked as read.", "data": entry})
}

// ListRead handles GET /reads/:userId, returning every read entry joined
// with its book.
func (h *ReadBookHandler) ListRead(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}
	readBooks, err := h.Reads.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving read books.", "error": err.Error()})
	}
	if readBooks == nil {
		readBooks = []*model.ReadEntry{}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Read books retrieved successfully.", "data": readBooks})
}

// GetRead handles GET /reads/:userId/:bookId.  An absent entry is not an
// error: the frontend probes this endpoint to render the read toggle, so
// it answers 200 with empty data.
func (h *ReadBookHandler) GetRead(c echo.Context) error {
	userID, err1 := strconv.ParseUint(c.Param("userId"), 10, 64)
	bookID, err2 := strconv.ParseUint(c.Param("bookId"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user or book id"})
	}
	entry, err := h.Reads.GetByUserAndBook(c.Request().Context(), userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrReadNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"data": []*model.ReadEntry{}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving read books.", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Read entry retrieved successfully.", "data": entry})
}

// DeleteRead handles DELETE /reads/:userId/:bookId.
func (h *ReadBookHandler) DeleteRead(c echo.Context) error {
	userID, err1 := strconv.ParseUint(c.Param("userId"), 10, 64)
	bookID, err2 := strconv.ParseUint(c.Param("bookId"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user or book id"})
	}
	entry, err := h.Reads.Delete(c.Request().Context(), userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrReadNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Read entry not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error removing book from read list.", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book removed from read list.", "data": entry})
}
