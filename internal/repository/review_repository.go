package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookhaven/book-catalogue/internal/model"
)

const reviewColumns = "id, book_id, reviewer_name, review_text, rating, created_at"

// ReviewRepo encapsulates all database queries related to reviews.  Every
// mutation recomputes the owning book's denormalized average rating in
// the same transaction, so the aggregate can never drift from the rows it
// summarizes.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewUpdate carries a partial update; nil fields keep their current
// value.
type ReviewUpdate struct {
	ReviewerName *string
	ReviewText   *string
	Rating       *int
}

// Create inserts a new review and refreshes the book's average rating.
// CreatedAt is assigned by the server.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	rv.CreatedAt = time.Now().UTC()
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO reviews (book_id, reviewer_name, review_text, rating, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rv.BookID, rv.ReviewerName, rv.ReviewText, rv.Rating, rv.CreatedAt)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	rv.ID = uint64(id)
	err = recomputeBookRating(ctx, tx, rv.BookID)
	return err
}

// List returns all reviews ordered by id.
func (r *ReviewRepo) List(ctx context.Context) ([]*model.Review, error) {
	return r.queryReviews(ctx, "SELECT "+reviewColumns+" FROM reviews ORDER BY id")
}

// ListByBook returns all reviews for a book.
func (r *ReviewRepo) ListByBook(ctx context.Context, bookID uint64) ([]*model.Review, error) {
	return r.queryReviews(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE book_id = ? ORDER BY id", bookID)
}

// GetByID fetches a review by its ID.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	return scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
}

// GetByBookAndID fetches a review by id scoped to its book.
func (r *ReviewRepo) GetByBookAndID(ctx context.Context, bookID, reviewID uint64) (*model.Review, error) {
	return scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ? AND book_id = ?", reviewID, bookID))
}

// Update applies a partial update, refreshes the book's average rating
// and returns the updated row.  ErrReviewNotFound when the id is absent.
func (r *ReviewRepo) Update(ctx context.Context, id uint64, upd ReviewUpdate) (*model.Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var bookID uint64
	if err = tx.QueryRowContext(ctx, "SELECT book_id FROM reviews WHERE id = ?", id).Scan(&bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrReviewNotFound
		}
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE reviews SET
		   reviewer_name = COALESCE(?, reviewer_name),
		   review_text = COALESCE(?, review_text),
		   rating = COALESCE(?, rating)
		 WHERE id = ?`,
		upd.ReviewerName, upd.ReviewText, upd.Rating, id); err != nil {
		return nil, err
	}
	if err = recomputeBookRating(ctx, tx, bookID); err != nil {
		return nil, err
	}
	var rv *model.Review
	rv, err = scanReview(tx.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
	return rv, err
}

// Delete removes a review and refreshes the book's average rating.
// ErrReviewNotFound when the id is absent.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var bookID uint64
	if err = tx.QueryRowContext(ctx, "SELECT book_id FROM reviews WHERE id = ?", id).Scan(&bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrReviewNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id); err != nil {
		return err
	}
	err = recomputeBookRating(ctx, tx, bookID)
	return err
}

// recomputeBookRating rewrites the book's denormalized total_review as
// the mean rating over its remaining reviews.  AVG over zero rows is
// NULL, which clears the aggregate when the last review goes away.
func recomputeBookRating(ctx context.Context, tx *sql.Tx, bookID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE books SET total_review = (SELECT AVG(rating) FROM reviews WHERE book_id = ?) WHERE id = ?",
		bookID, bookID)
	return err
}

func scanReview(row rowScanner) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(&rv.ID, &rv.BookID, &rv.ReviewerName, &rv.ReviewText, &rv.Rating, &rv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) queryReviews(ctx context.Context, query string, args ...interface{}) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
