package models

import "time"

// Feedback is one customer comment attached to a product. The log is
// append-only; only an admin may delete an entry.
type Feedback struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	Date       time.Time `json:"date"`
}
