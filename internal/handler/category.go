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

// CategoryStore is the slice of the category repository used by the
// category endpoints.  DeleteCascade removes the category and every
// dependent book, review and read entry as one transactional operation.
type CategoryStore interface {
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	GetByTopic(ctx context.Context, topic string) (*model.Category, error)
	Update(ctx context.Context, id uint64, topic, image *string) (*model.Category, error)
	DeleteCascade(ctx context.Context, id uint64) error
}

// bookTitleGetter is the single book lookup the category endpoints need.
type bookTitleGetter interface {
	GetByTitle(ctx context.Context, title string) (*model.Book, error)
}

// CategoryHandler bundles dependencies for the category endpoints.
type CategoryHandler struct {
	Categories CategoryStore
	Books      bookTitleGetter
}

func NewCategoryHandler(categories CategoryStore, books bookTitleGetter) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Books: books}
}

type categoryReq struct {
	Topic *string `json:"topic"`
	Image *string `json:"image"`
}

// CreateCategory handles POST /categories (admin only).
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}
	if req.Topic == nil || *req.Topic == "" || req.Image == nil || *req.Image == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "FAILED", "message": "Topic and image are required."})
	}
	cat := &model.Category{Topic: *req.Topic, Image: *req.Image}
	if err := h.Categories.Create(c.Request().Context(), cat); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status": "SUCCESS", "message": "new category posted successfully", "data": cat})
}

// ListCategories handles GET /categories.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	result, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "Error fetching categories", "error": err.Error()})
	}
	if len(result) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "No categories found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Successfully retrieved all categories", "data": result})
}

// GetCategoryByTopic handles GET /categories/topic/:topic.
func (h *CategoryHandler) GetCategoryByTopic(c echo.Context) error {
	cat, err := h.Categories.GetByTopic(c.Request().Context(), c.Param("topic"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "successfully retrieved category by topic name", "data": cat})
}

// GetCategoryByBookTitle handles GET /categories/title/:title: it resolves
// a book by title and returns the category that owns it.
func (h *CategoryHandler) GetCategoryByBookTitle(c echo.Context) error {
	ctx := c.Request().Context()
	book, err := h.Books.GetByTitle(ctx, c.Param("title"))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status": "FAILED", "message": "Book not found"})
		}
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	cat, err := h.Categories.GetByID(ctx, book.CategoryID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "successfully retrieved category by book title name", "data": cat})
}

// GetCategory handles GET /categories/:categoryID.
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "successfully retrieved category by ID", "data": cat})
}

// UpdateCategory handles PUT /categories/:categoryID (admin only).
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	return h.update(c, http.StatusBadRequest, "Bad payload")
}

// PatchCategory handles PATCH /categories/:categoryID (admin only).  Same
// partial-update semantics; a missing record is reported as 404 rather
// than a bad payload.
func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	return h.update(c, http.StatusNotFound, "Record not found")
}

func (h *CategoryHandler) update(c echo.Context, missingStatus int, missingMsg string) error {
	id, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		return c.JSON(missingStatus, echo.Map{"status": "FAILED", "message": missingMsg})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}
	cat, err := h.Categories.Update(c.Request().Context(), id, req.Topic, req.Image)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(missingStatus, echo.Map{"status": "FAILED", "message": missingMsg})
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "ERROR", "message": "An error occurred while updating the record", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Record was successfully updated", "data": cat})
}

// DeleteCategory handles DELETE /categories/:categoryID (admin only).  The
// category and every dependent book, review and read entry are removed in
// one transaction; partial completion rolls back.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record was not deleted"})
	}
	ctx := c.Request().Context()
	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record was not deleted"})
	}
	if err := h.Categories.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status": "FAILED", "message": "Record was not deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while trying to delete the record", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Record was successfully deleted", "data": cat})
}
