package model

// Book belongs to exactly one category.  TotalReview is the denormalized
// average rating over the book's reviews; it is NULL while the book has no
// reviews and is recomputed by the storage layer whenever a review is
// created, updated or deleted.
type Book struct {
    ID            uint64   `json:"id"`
    CategoryID    uint64   `json:"category"`
    Title         string   `json:"title"`
    Author        string   `json:"author"`
    Description   string   `json:"description"`
    PublishedYear string   `json:"publishedYear"`
    TotalReview   *float64 `json:"totalReview"`
    Image         string   `json:"image,omitempty"`
}
