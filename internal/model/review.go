package model

import "time"

// MinReviewTextLen is the minimum accepted length of a review body.
const MinReviewTextLen = 10

// Review belongs to exactly one book.  Rating is an integer between 1 and
// 5 inclusive; CreatedAt is assigned by the server at creation time.
type Review struct {
    ID           uint64    `json:"id"`
    BookID       uint64    `json:"book"`
    ReviewerName string    `json:"reviewerName"`
    ReviewText   string    `json:"reviewText"`
    Rating       int       `json:"rating"`
    CreatedAt    time.Time `json:"createdAt"`
}

// ValidRating reports whether a rating lies in the accepted 1..5 range.
func ValidRating(rating int) bool {
    return rating >= 1 && rating <= 5
}
