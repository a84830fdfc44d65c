package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/book-catalogue/internal/model"
	"github.com/bookhaven/book-catalogue/internal/repository"
)

type readKey struct{ userID, bookID uint64 }

type fakeReadStore struct {
	nextID  uint64
	entries map[readKey]*model.ReadBook
}

func newFakeReadStore() *fakeReadStore {
	return &fakeReadStore{nextID: 1, entries: map[readKey]*model.ReadBook{}}
}

func (f *fakeReadStore) Create(_ context.Context, userID, bookID uint64) (*model.ReadBook, error) {
	key := readKey{userID, bookID}
	if _, ok := f.entries[key]; ok {
		return nil, repository.ErrDuplicateRead
	}
	rb := &model.ReadBook{ID: f.nextID, UserID: userID, BookID: bookID}
	f.nextID++
	f.entries[key] = rb
	return rb, nil
}

func (f *fakeReadStore) GetByUserAndBook(_ context.Context, userID, bookID uint64) (*model.ReadEntry, error) {
	rb, ok := f.entries[readKey{userID, bookID}]
	if !ok {
		return nil, repository.ErrReadNotFound
	}
	return &model.ReadEntry{ID: rb.ID, UserID: rb.UserID, Book: model.Book{ID: rb.BookID}}, nil
}

func (f *fakeReadStore) ListByUser(_ context.Context, userID uint64) ([]*model.ReadEntry, error) {
	var out []*model.ReadEntry
	for _, rb := range f.entries {
		if rb.UserID == userID {
			out = append(out, &model.ReadEntry{ID: rb.ID, UserID: rb.UserID, Book: model.Book{ID: rb.BookID}})
		}
	}
	return out, nil
}

func (f *fakeReadStore) Delete(_ context.Context, userID, bookID uint64) (*model.ReadBook, error) {
	key := readKey{userID, bookID}
	rb, ok := f.entries[key]
	if !ok {
		return nil, repository.ErrReadNotFound
	}
	delete(f.entries, key)
	return rb, nil
}

func TestMarkRead(t *testing.T) {
	store := newFakeReadStore()
	h := NewReadBookHandler(store)

	rec := paramRequest(t, h.MarkRead, `{"userId":3,"bookId":7}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book marked as read.")
	assert.Len(t, store.entries, 1)
}

func TestMarkRead_Duplicate(t *testing.T) {
	store := newFakeReadStore()
	h := NewReadBookHandler(store)

	rec := paramRequest(t, h.MarkRead, `{"userId":3,"bookId":7}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Marking again is idempotent: the existing entry, not a second row.
	rec = paramRequest(t, h.MarkRead, `{"userId":3,"bookId":7}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book already marked as read by user.")
	assert.Len(t, store.entries, 1)
}

func TestMarkRead_MissingFields(t *testing.T) {
	h := NewReadBookHandler(newFakeReadStore())
	rec := paramRequest(t, h.MarkRead, `{"userId":3}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRead_Absent(t *testing.T) {
	h := NewReadBookHandler(newFakeReadStore())
	rec := paramRequest(t, h.GetRead, "", map[string]string{"userId": "3", "bookId": "7"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestDeleteRead(t *testing.T) {
	store := newFakeReadStore()
	h := NewReadBookHandler(store)
	_, err := store.Create(context.Background(), 3, 7)
	require.NoError(t, err)

	rec := paramRequest(t, h.DeleteRead, "", map[string]string{"userId": "3", "bookId": "7"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book removed from read list.")
	assert.Empty(t, store.entries)

	rec = paramRequest(t, h.DeleteRead, "", map[string]string{"userId": "3", "bookId": "7"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Read entry not found.")
}
