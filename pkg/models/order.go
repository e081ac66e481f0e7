package models

import (
	"encoding/json"
	"time"
)

// UnknownArtisan is the owner sentinel for items whose artisan could not be
// resolved even through the legacy aliases.
const UnknownArtisan = "unknown-artisan"

// OrderStatus advances monotonically: placed -> processing -> delivered.
type OrderStatus string

const (
	OrderPlaced     OrderStatus = "placed"
	OrderProcessing OrderStatus = "processing"
	OrderDelivered  OrderStatus = "delivered"
)

var statusRank = map[OrderStatus]int{
	OrderPlaced:     0,
	OrderProcessing: 1,
	OrderDelivered:  2,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next is a legal forward
// transition. Re-asserting the current status is not a transition.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	cur, ok := statusRank[s]
	if !ok {
		// unknown stored status: allow any valid target so legacy data can heal
		return next.Valid()
	}
	nxt, ok := statusRank[next]
	return ok && nxt > cur
}

// CartItem is one line in a customer cart and, after checkout, one line of an
// order snapshot. ArtisanID is required at creation time; decoding maps the
// legacy owner aliases into it so old data migrates on load.
type CartItem struct {
	ProductID string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	ArtisanID string  `json:"artisanId"`
}

func (c *CartItem) UnmarshalJSON(data []byte) error {
	type cartItem CartItem
	aux := struct {
		*cartItem
		AddedBy  string `json:"addedBy"`
		Seller   string `json:"seller"`
		Owner    string `json:"owner"`
		PostedBy string `json:"postedBy"`
		Merchant struct {
			ID string `json:"id"`
		} `json:"merchant"`
	}{cartItem: (*cartItem)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ArtisanID == "" {
		for _, owner := range []string{aux.AddedBy, aux.Seller, aux.Owner, aux.PostedBy, aux.Merchant.ID} {
			if owner != "" {
				c.ArtisanID = owner
				break
			}
		}
	}
	if c.ArtisanID == "" {
		c.ArtisanID = UnknownArtisan
	}
	if c.Quantity < 1 {
		c.Quantity = 1
	}
	return nil
}

// Order is one artisan's share of a checkout. Items is never empty.
type Order struct {
	ID         string      `json:"id"`
	ArtisanID  string      `json:"artisanId"`
	CustomerID string      `json:"customerId,omitempty"`
	Items      []CartItem  `json:"items"`
	Date       time.Time   `json:"date"`
	Status     OrderStatus `json:"status"`
}

// Total is the order value: sum of price*quantity over the item snapshot.
func (o Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		sum += it.Price * float64(qty)
	}
	return sum
}
