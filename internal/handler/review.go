package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookhaven/book-catalogue/internal/model"
	"github.com/bookhaven/book-catalogue/internal/queue"
	"github.com/bookhaven/book-catalogue/internal/repository"
)

// ReviewStore is the slice of the review repository used by the review
// endpoints.  Mutations refresh the owning book's average rating inside
// the store, in the same transaction as the row change.
type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	List(ctx context.Context) ([]*model.Review, error)
	ListByBook(ctx context.Context, bookID uint64) ([]*model.Review, error)
	GetByID(ctx context.Context, id uint64) (*model.Review, error)
	GetByBookAndID(ctx context.Context, bookID, reviewID uint64) (*model.Review, error)
	Update(ctx context.Context, id uint64, upd repository.ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, id uint64) error
}

// bookGetter is the book lookup the review endpoints need.
type bookGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Book, error)
}

// EventPublisher publishes review domain events to the message broker.
// Publishing is best-effort: failures are logged and never fail the
// request.  May be nil when no broker is configured.
type EventPublisher interface {
	PublishReviewPosted(ctx context.Context, ev queue.ReviewPostedEvent) error
}

// ReviewHandler bundles dependencies for the review endpoints.
type ReviewHandler struct {
	Reviews   ReviewStore
	Books     bookGetter
	Publisher EventPublisher
}

func NewReviewHandler(reviews ReviewStore, books bookGetter, pub EventPublisher) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Books: books, Publisher: pub}
}

type reviewReq struct {
	ReviewerName *string `json:"reviewerName"`
	ReviewText   *string `json:"reviewText"`
	Rating       *int    `json:"rating"`
}

// CreateReview handles POST /categories/:categoryID/books/:bookID/reviews
// (any authenticated identity).  The rating must be an integer 1..5 and
// the review body must meet the minimum length.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	bookID, err := strconv.ParseUint(c.Param("bookID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Book not found"})
	}
	ctx := c.Request().Context()
	book, err := h.Books.GetByID(ctx, bookID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Book not found"})
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}
	if req.Rating == nil || !model.ValidRating(*req.Rating) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Invalid rating. Rating should be between 1 and 5"})
	}
	if req.ReviewerName == nil || *req.ReviewerName == "" ||
		req.ReviewText == nil || len(*req.ReviewText) < model.MinReviewTextLen {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data"})
	}

	review := &model.Review{
		BookID:       bookID,
		ReviewerName: *req.ReviewerName,
		ReviewText:   *req.ReviewText,
		Rating:       *req.Rating,
	}
	if err := h.Reviews.Create(ctx, review); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}

	if h.Publisher != nil {
		ev := queue.ReviewPostedEvent{
			ReviewID:     review.ID,
			BookID:       book.ID,
			BookTitle:    book.Title,
			ReviewerName: review.ReviewerName,
			Rating:       review.Rating,
			PostedAt:     review.CreatedAt.Format(time.RFC3339),
		}
		if err := h.Publisher.PublishReviewPosted(ctx, ev); err != nil {
			log.Printf("review event publish failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status": "SUCCESS", "message": "new Review posted successfully", "data": review})
}

// ListReviews handles GET /reviews.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	result, err := h.Reviews.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "Error fetching reviews", "error": err.Error()})
	}
	if len(result) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "No reviews found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Successfully retrieved all reviews", "data": result})
}

// GetReview handles GET /reviews/:reviewID.
func (h *ReviewHandler) GetReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("reviewID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	review, err := h.Reviews.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "successfully retrieved Review by ID", "data": review})
}

// ListReviewsByBook handles GET /categories/:categoryID/books/:bookID/reviews.
// A book with no reviews yields an empty data array, not a 404.
func (h *ReviewHandler) ListReviewsByBook(c echo.Context) error {
	bookID, err := strconv.ParseUint(c.Param("bookID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"data": []*model.Review{}})
	}
	reviews, err := h.Reviews.ListByBook(c.Request().Context(), bookID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while retrieving reviews", "error": err.Error()})
	}
	if len(reviews) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"data": []*model.Review{}})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Successfully retrieved reviews for the book", "data": reviews})
}

// GetReviewInBook handles GET /categories/:categoryID/books/:bookID/reviews/:reviewID.
func (h *ReviewHandler) GetReviewInBook(c echo.Context) error {
	bookID, err1 := strconv.ParseUint(c.Param("bookID"), 10, 64)
	reviewID, err2 := strconv.ParseUint(c.Param("reviewID"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Review not found"})
	}
	review, err := h.Reviews.GetByBookAndID(c.Request().Context(), bookID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status": "FAILED", "message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while retrieving the review", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Successfully retrieved the review", "data": review})
}

// UpdateReview handles PUT .../reviews/:reviewID (author or admin).
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	return h.update(c, http.StatusBadRequest, "Bad payload")
}

// PatchReview handles PATCH .../reviews/:reviewID (author or admin).
func (h *ReviewHandler) PatchReview(c echo.Context) error {
	return h.update(c, http.StatusNotFound, "Record not found")
}

func (h *ReviewHandler) update(c echo.Context, missingStatus int, missingMsg string) error {
	reviewID, err := strconv.ParseUint(c.Param("reviewID"), 10, 64)
	if err != nil {
		return c.JSON(missingStatus, echo.Map{"status": "FAILED", "message": missingMsg})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data", "error": err.Error()})
	}
	if req.Rating != nil && !model.ValidRating(*req.Rating) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Invalid rating. Rating should be between 1 and 5"})
	}
	if req.ReviewText != nil && len(*req.ReviewText) < model.MinReviewTextLen {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "FAILED", "message": "Unprocessable entity: Invalid data"})
	}
	review, err := h.Reviews.Update(c.Request().Context(), reviewID, repository.ReviewUpdate{
		ReviewerName: req.ReviewerName,
		ReviewText:   req.ReviewText,
		Rating:       req.Rating,
	})
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(missingStatus, echo.Map{"status": "FAILED", "message": missingMsg})
		}
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"status": "ERROR", "message": "An error occurred while updating the record", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Record was successfully updated", "data": review})
}

// DeleteReview handles DELETE .../reviews/:reviewID (author or admin).
// The book's average rating is refreshed in the same transaction as the
// delete.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	reviewID, err := strconv.ParseUint(c.Param("reviewID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record was not deleted"})
	}
	ctx := c.Request().Context()
	review, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"status": "FAILED", "message": "Record was not deleted"})
	}
	if err := h.Reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status": "FAILED", "message": "Record was not deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "ERROR", "message": "An error occurred while trying to delete the record", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "SUCCESS", "message": "Record was successfully deleted", "data": review})
}
