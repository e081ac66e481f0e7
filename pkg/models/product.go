package models

import "time"

// ProductStatus tracks where a product lives: the pending queue or the
// published catalog. Transitions are one-way and terminal.
type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
)

// Product is a catalog entry. The same shape is used in the pending queue
// and the published catalog; only Status differs.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       float64       `json:"price"`
	ImageURL    string        `json:"imageUrl"`
	Description string        `json:"description"`
	ArtisanID   string        `json:"artisanId"`
	Status      ProductStatus `json:"status"`
}

// RejectedProduct is the audit record kept when a consultant rejects a
// pending product.
type RejectedProduct struct {
	Product
	RejectedAt time.Time `json:"rejectedAt"`
	Reason     string    `json:"reason"`
}
