package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bookhaven/book-catalogue/internal/model"
)

// ReadBookRepo persists the read-tracking join records.  The reads table
// carries a composite unique key on (user_id, book_id); duplicate
// markings surface as ErrDuplicateRead instead of a second row.
type ReadBookRepo struct {
	db *sql.DB
}

func NewReadBookRepo(db *sql.DB) *ReadBookRepo { return &ReadBookRepo{db: db} }

// Create marks a book as read by a user.
func (r *ReadBookRepo) Create(ctx context.Context, userID, bookID uint64) (*model.ReadBook, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reads (user_id, book_id) VALUES (?, ?)", userID, bookID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrDuplicateRead
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.ReadBook{ID: uint64(id), UserID: userID, BookID: bookID}, nil
}

// GetByUserAndBook returns the read entry for a (user, book) pair joined
// with the book data, or ErrReadNotFound.
func (r *ReadBookRepo) GetByUserAndBook(ctx context.Context, userID, bookID uint64) (*model.ReadEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT rd.id, rd.user_id, b.id, b.category_id, b.title, b.author, b.description,
		        b.published_year, b.total_review, b.image
		 FROM reads rd JOIN books b ON b.id = rd.book_id
		 WHERE rd.user_id = ? AND rd.book_id = ?`, userID, bookID)
	e, err := scanReadEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReadNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListByUser returns all of a user's read entries, each joined with its
// book so the client can render the list without extra lookups.
func (r *ReadBookRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.ReadEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rd.id, rd.user_id, b.id, b.category_id, b.title, b.author, b.description,
		        b.published_year, b.total_review, b.image
		 FROM reads rd JOIN books b ON b.id = rd.book_id
		 WHERE rd.user_id = ? ORDER BY rd.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ReadEntry
	for rows.Next() {
		e, err := scanReadEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the read entry for a (user, book) pair and returns the
// removed record, or ErrReadNotFound.
func (r *ReadBookRepo) Delete(ctx context.Context, userID, bookID uint64) (*model.ReadBook, error) {
	var rb model.ReadBook
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, book_id FROM reads WHERE user_id = ? AND book_id = ?",
		userID, bookID).Scan(&rb.ID, &rb.UserID, &rb.BookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReadNotFound
		}
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reads WHERE id = ?", rb.ID); err != nil {
		return nil, err
	}
	return &rb, nil
}

func scanReadEntry(row rowScanner) (*model.ReadEntry, error) {
	var (
		e           model.ReadEntry
		totalReview sql.NullFloat64
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Book.ID, &e.Book.CategoryID, &e.Book.Title,
		&e.Book.Author, &e.Book.Description, &e.Book.PublishedYear, &totalReview, &e.Book.Image)
	if err != nil {
		return nil, err
	}
	if totalReview.Valid {
		v := totalReview.Float64
		e.Book.TotalReview = &v
	}
	return &e, nil
}
