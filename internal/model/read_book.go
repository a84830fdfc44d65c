package model

// ReadBook is the join record marking that a user has read a book.  The
// (user_id, book_id) pair carries a composite unique key so a book can be
// marked read at most once per user.
type ReadBook struct {
    ID     uint64 `json:"id"`
    UserID uint64 `json:"userId"`
    BookID uint64 `json:"bookId"`
}

// ReadEntry is a read record joined with its book, as returned by list
// endpoints so clients do not need a second lookup.
type ReadEntry struct {
    ID     uint64 `json:"id"`
    UserID uint64 `json:"userId"`
    Book   Book   `json:"bookId"`
}
