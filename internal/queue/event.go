// Package queue defines message payloads exchanged over the message broker.
package queue

// ReviewPostedEvent is published when a review is successfully created.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type ReviewPostedEvent struct {
    ReviewID     uint64 `json:"review_id"`
    BookID       uint64 `json:"book_id"`
    BookTitle    string `json:"book_title"`
    ReviewerName string `json:"reviewer_name"`
    Rating       int    `json:"rating"`
    PostedAt     string `json:"posted_at"`
}
