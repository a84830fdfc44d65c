package model

// Category is a top-level shelf grouping books by topic.  Deleting a
// category cascades to its books and, transitively, their reviews and
// read entries.
type Category struct {
    ID    uint64 `json:"id"`
    Topic string `json:"topic"`
    Image string `json:"image"`
}
