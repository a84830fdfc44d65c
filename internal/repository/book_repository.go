package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bookhaven/book-catalogue/internal/model"
)

const bookColumns = "id, category_id, title, author, description, published_year, total_review, image"

// BookRepo encapsulates all database queries related to books, including
// the book cascade delete (reviews and read entries go with the book).
type BookRepo struct {
	db *sql.DB
}

func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{db: db} }

// BookUpdate carries a partial update; nil fields keep their current
// value.
type BookUpdate struct {
	Title         *string
	Author        *string
	Description   *string
	PublishedYear *string
	Image         *string
}

// Create inserts a new book under its category.  On success the ID field
// is populated with the auto-generated value.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (category_id, title, author, description, published_year, image)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.CategoryID, b.Title, b.Author, b.Description, b.PublishedYear, b.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// List returns all books ordered by id.
func (r *BookRepo) List(ctx context.Context) ([]*model.Book, error) {
	return r.queryBooks(ctx, "SELECT "+bookColumns+" FROM books ORDER BY id")
}

// ListByCategory returns all books belonging to a category.
func (r *BookRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]*model.Book, error) {
	return r.queryBooks(ctx,
		"SELECT "+bookColumns+" FROM books WHERE category_id = ? ORDER BY id", categoryID)
}

// GetByID fetches a book by its ID.
func (r *BookRepo) GetByID(ctx context.Context, id uint64) (*model.Book, error) {
	return r.scanBook(r.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id = ?", id))
}

// GetByCategoryAndID fetches a book by id scoped to a category, so a book
// cannot be addressed through the wrong branch of the hierarchy.
func (r *BookRepo) GetByCategoryAndID(ctx context.Context, categoryID, bookID uint64) (*model.Book, error) {
	return r.scanBook(r.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id = ? AND category_id = ?", bookID, categoryID))
}

// GetByTitle fetches the first book with the given title.
func (r *BookRepo) GetByTitle(ctx context.Context, title string) (*model.Book, error) {
	return r.scanBook(r.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE title = ? LIMIT 1", title))
}

// GetByCategoryAndTitle fetches a book by title within a category.
func (r *BookRepo) GetByCategoryAndTitle(ctx context.Context, categoryID uint64, title string) (*model.Book, error) {
	return r.scanBook(r.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE category_id = ? AND title = ? LIMIT 1", categoryID, title))
}

// Update applies a partial update and returns the updated row.
// ErrBookNotFound when the id is absent.
func (r *BookRepo) Update(ctx context.Context, id uint64, upd BookUpdate) (*model.Book, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET
		   title = COALESCE(?, title),
		   author = COALESCE(?, author),
		   description = COALESCE(?, description),
		   published_year = COALESCE(?, published_year),
		   image = COALESCE(?, image)
		 WHERE id = ?`,
		upd.Title, upd.Author, upd.Description, upd.PublishedYear, upd.Image, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade removes a book together with its reviews and read
// entries inside one transaction.  ErrBookNotFound is returned when the
// book does not exist.
func (r *BookRepo) DeleteCascade(ctx context.Context, id uint64) error {
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

	var existing uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM books WHERE id = ?", id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrBookNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reviews WHERE book_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reads WHERE book_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *BookRepo) scanBook(row rowScanner) (*model.Book, error) {
	var (
		b           model.Book
		totalReview sql.NullFloat64
	)
	err := row.Scan(&b.ID, &b.CategoryID, &b.Title, &b.Author, &b.Description,
		&b.PublishedYear, &totalReview, &b.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if totalReview.Valid {
		v := totalReview.Float64
		b.TotalReview = &v
	}
	return &b, nil
}

func (r *BookRepo) queryBooks(ctx context.Context, query string, args ...interface{}) ([]*model.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Book
	for rows.Next() {
		b, err := r.scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
