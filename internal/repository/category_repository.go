// Package repository contains data access logic separated from HTTP
// handlers.  This file defines repository methods for category CRUD and
// the category cascade delete.  A category is the root of the
// Category → Book → Review ownership hierarchy; removing one must also
// remove every dependent record, which is done inside a single
// transaction so a failure never leaves the hierarchy half-deleted.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bookhaven/book-catalogue/internal/model"
)

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
// This allows dependency injection of the database in tests and at
// startup.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a new category.  On success the ID field is populated
// with the auto-generated value.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (topic, image) VALUES (?, ?)", c.Topic, c.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// List returns all categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, topic, image FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c := new(model.Category)
		if err := rows.Scan(&c.ID, &c.Topic, &c.Image); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a category by its ID.  It returns ErrCategoryNotFound
// if no row is found.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, topic, image FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Topic, &c.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByTopic fetches a category by its topic name.
func (r *CategoryRepo) GetByTopic(ctx context.Context, topic string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, topic, image FROM categories WHERE topic = ? LIMIT 1", topic).
		Scan(&c.ID, &c.Topic, &c.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update applies a partial update: nil fields keep their current value.
// The updated row is returned; ErrCategoryNotFound when the id is absent.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, topic, image *string) (*model.Category, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE categories SET topic = COALESCE(?, topic), image = COALESCE(?, image) WHERE id = ?",
		topic, image, id)
	if err != nil {
		return nil, err
	}
	// RowsAffected is zero both for a missing row and for a no-op update,
	// so existence is confirmed by the follow-up select.
	return r.GetByID(ctx, id)
}

// DeleteCascade removes a category together with every dependent record:
// reviews and read entries of books in the category, then the books, then
// the category itself.  All four deletions run in one transaction and
// either all commit or all roll back.  ErrCategoryNotFound is returned
// when the category does not exist.
func (r *CategoryRepo) DeleteCascade(ctx context.Context, id uint64) error {
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
	if err = tx.QueryRowContext(ctx, "SELECT id FROM categories WHERE id = ?", id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCategoryNotFound
		}
		return err
	}
	// Reviews of books in this category
	if _, err = tx.ExecContext(ctx,
		`DELETE rv FROM reviews rv
		 JOIN books b ON b.id = rv.book_id
		 WHERE b.category_id = ?`, id); err != nil {
		return err
	}
	// Read entries of books in this category
	if _, err = tx.ExecContext(ctx,
		`DELETE rd FROM reads rd
		 JOIN books b ON b.id = rd.book_id
		 WHERE b.category_id = ?`, id); err != nil {
		return err
	}
	// Books, then the category itself
	if _, err = tx.ExecContext(ctx, "DELETE FROM books WHERE category_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	return err
}
