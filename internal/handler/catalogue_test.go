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

type fakeCategoryStore struct {
	nextID     uint64
	categories map[uint64]*model.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{nextID: 1, categories: map[uint64]*model.Category{}}
}

func (f *fakeCategoryStore) Create(_ context.Context, c *model.Category) error {
	c.ID = f.nextID
	f.nextID++
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeCategoryStore) List(_ context.Context) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id uint64) (*model.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, repository.ErrCategoryNotFound
}

func (f *fakeCategoryStore) GetByTopic(_ context.Context, topic string) (*model.Category, error) {
	for _, c := range f.categories {
		if c.Topic == topic {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (f *fakeCategoryStore) Update(_ context.Context, id uint64, topic, image *string) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	if topic != nil {
		c.Topic = *topic
	}
	if image != nil {
		c.Image = *image
	}
	return c, nil
}

func (f *fakeCategoryStore) DeleteCascade(_ context.Context, id uint64) error {
	if _, ok := f.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

type fakeBookStore struct {
	nextID uint64
	books  map[uint64]*model.Book
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{nextID: 1, books: map[uint64]*model.Book{}}
}

func (f *fakeBookStore) Create(_ context.Context, b *model.Book) error {
	b.ID = f.nextID
	f.nextID++
	cp := *b
	f.books[b.ID] = &cp
	return nil
}

func (f *fakeBookStore) List(_ context.Context) ([]*model.Book, error) {
	var out []*model.Book
	for _, b := range f.books {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookStore) ListByCategory(_ context.Context, categoryID uint64) ([]*model.Book, error) {
	var out []*model.Book
	for _, b := range f.books {
		if b.CategoryID == categoryID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookStore) GetByID(_ context.Context, id uint64) (*model.Book, error) {
	if b, ok := f.books[id]; ok {
		return b, nil
	}
	return nil, repository.ErrBookNotFound
}

func (f *fakeBookStore) GetByCategoryAndID(_ context.Context, categoryID, bookID uint64) (*model.Book, error) {
	if b, ok := f.books[bookID]; ok && b.CategoryID == categoryID {
		return b, nil
	}
	return nil, repository.ErrBookNotFound
}

func (f *fakeBookStore) GetByTitle(_ context.Context, title string) (*model.Book, error) {
	for _, b := range f.books {
		if b.Title == title {
			return b, nil
		}
	}
	return nil, repository.ErrBookNotFound
}

func (f *fakeBookStore) GetByCategoryAndTitle(_ context.Context, categoryID uint64, title string) (*model.Book, error) {
	for _, b := range f.books {
		if b.CategoryID == categoryID && b.Title == title {
			return b, nil
		}
	}
	return nil, repository.ErrBookNotFound
}

func (f *fakeBookStore) Update(_ context.Context, id uint64, upd repository.BookUpdate) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.Author != nil {
		b.Author = *upd.Author
	}
	if upd.Description != nil {
		b.Description = *upd.Description
	}
	if upd.PublishedYear != nil {
		b.PublishedYear = *upd.PublishedYear
	}
	if upd.Image != nil {
		b.Image = *upd.Image
	}
	return b, nil
}

func (f *fakeBookStore) DeleteCascade(_ context.Context, id uint64) error {
	if _, ok := f.books[id]; !ok {
		return repository.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func catalogueFixture(t *testing.T) (*CategoryHandler, *BookHandler, *fakeCategoryStore, *fakeBookStore) {
	t.Helper()
	cats := newFakeCategoryStore()
	books := newFakeBookStore()
	require.NoError(t, cats.Create(context.Background(), &model.Category{Topic: "fantasy", Image: "fantasy.png"}))
	return NewCategoryHandler(cats, books), NewBookHandler(books, cats), cats, books
}

func TestCreateCategory(t *testing.T) {
	ch, _, cats, _ := catalogueFixture(t)

	rec := paramRequest(t, ch.CreateCategory, `{"topic":"sci-fi","image":"scifi.png"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "new category posted successfully")
	assert.Len(t, cats.categories, 2)
}

func TestCreateCategory_MissingFields(t *testing.T) {
	ch, _, cats, _ := catalogueFixture(t)

	for _, body := range []string{`{}`, `{"topic":"sci-fi"}`, `{"image":"scifi.png"}`, `{"topic":"","image":""}`} {
		rec := paramRequest(t, ch.CreateCategory, body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "Topic and image are required.")
	}
	assert.Len(t, cats.categories, 1)
}

func TestListCategories_Empty(t *testing.T) {
	ch := NewCategoryHandler(newFakeCategoryStore(), newFakeBookStore())
	rec := paramRequest(t, ch.ListCategories, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No categories found")
}

func TestGetCategoryByBookTitle(t *testing.T) {
	ch, _, _, books := catalogueFixture(t)
	require.NoError(t, books.Create(context.Background(), &model.Book{CategoryID: 1, Title: "The Hobbit"}))

	rec := paramRequest(t, ch.GetCategoryByBookTitle, "", map[string]string{"title": "The Hobbit"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fantasy")

	rec = paramRequest(t, ch.GetCategoryByBookTitle, "", map[string]string{"title": "Unknown"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book not found")
}

func TestCreateBook(t *testing.T) {
	_, bh, _, books := catalogueFixture(t)

	body := `{"title":"The Hobbit","author":"J.R.R. Tolkien","description":"There and back again","publishedYear":"1937"}`
	rec := paramRequest(t, bh.CreateBook, body, map[string]string{"categoryID": "1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book added successfully under category: fantasy")
	require.Len(t, books.books, 1)
	assert.Equal(t, uint64(1), books.books[1].CategoryID)
}

func TestCreateBook_UnknownCategory(t *testing.T) {
	_, bh, _, _ := catalogueFixture(t)
	body := `{"title":"The Hobbit","author":"J.R.R. Tolkien","description":"There and back again","publishedYear":"1937"}`
	rec := paramRequest(t, bh.CreateBook, body, map[string]string{"categoryID": "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category not found")
}

func TestCreateBook_MissingFields(t *testing.T) {
	_, bh, _, books := catalogueFixture(t)
	rec := paramRequest(t, bh.CreateBook, `{"title":"The Hobbit"}`, map[string]string{"categoryID": "1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unprocessable entity")
	assert.Empty(t, books.books)
}

func TestGetBookByCategoryTitle(t *testing.T) {
	_, bh, _, books := catalogueFixture(t)
	require.NoError(t, books.Create(context.Background(), &model.Book{CategoryID: 1, Title: "The Hobbit"}))

	rec := paramRequest(t, bh.GetBookByCategoryTitle, "", map[string]string{"category": "fantasy", "title": "The Hobbit"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Successfully retrieved book by title")

	rec = paramRequest(t, bh.GetBookByCategoryTitle, "", map[string]string{"category": "history", "title": "The Hobbit"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchBook(t *testing.T) {
	_, bh, _, books := catalogueFixture(t)
	require.NoError(t, books.Create(context.Background(), &model.Book{
		CategoryID: 1, Title: "The Hobbit", Author: "J.R.R. Tolkien", PublishedYear: "1937"}))

	rec := paramRequest(t, bh.PatchBook, `{"description":"revised"}`, map[string]string{"categoryID": "1", "bookID": "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "revised", books.books[1].Description)
	assert.Equal(t, "The Hobbit", books.books[1].Title)
}

func TestDeleteCategory_ReturnsDeletedRecord(t *testing.T) {
	ch, _, cats, _ := catalogueFixture(t)

	rec := paramRequest(t, ch.DeleteCategory, "", map[string]string{"categoryID": "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Record was successfully deleted")
	assert.Contains(t, rec.Body.String(), "fantasy")
	assert.Empty(t, cats.categories)

	rec = paramRequest(t, ch.DeleteCategory, "", map[string]string{"categoryID": "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Record was not deleted")
}
