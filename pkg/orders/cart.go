// Package orders implements the cart and order workflow: cart mutation,
// checkout partitioning into one order per artisan, the guarded status
// machine, and the admin aggregation fold.
package orders

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/store"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("not the owning artisan")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Service struct {
	store  store.Store
	logger *zap.Logger
}

func NewService(st store.Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Cart returns the current cart contents.
func (s *Service) Cart(ctx context.Context) []models.CartItem {
	return store.Load[models.CartItem](ctx, s.store, store.SlotCart)
}

// CartTotal is the sum of price*quantity over the cart.
func (s *Service) CartTotal(ctx context.Context) float64 {
	var total float64
	for _, it := range s.Cart(ctx) {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// AddToCart appends an item. Adding an item whose name is already in the
// cart merges into that line by bumping its quantity.
func (s *Service) AddToCart(ctx context.Context, item models.CartItem) error {
	if item.Name == "" || item.Price < 0 {
		return ErrInvalidInput
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.ArtisanID == "" {
		item.ArtisanID = models.UnknownArtisan
	}

	return store.Update(ctx, s.store, store.SlotCart, func(cart []models.CartItem) ([]models.CartItem, error) {
		for i, existing := range cart {
			if existing.Name == item.Name {
				cart[i].Quantity += item.Quantity
				return cart, nil
			}
		}
		return append(cart, item), nil
	})
}

// RemoveFromCart drops the line with the given name. Removing an absent name
// is a no-op, matching how the cart view behaves.
func (s *Service) RemoveFromCart(ctx context.Context, name string) error {
	return store.Update(ctx, s.store, store.SlotCart, func(cart []models.CartItem) ([]models.CartItem, error) {
		next := make([]models.CartItem, 0, len(cart))
		for _, it := range cart {
			if it.Name != name {
				next = append(next, it)
			}
		}
		return next, nil
	})
}
