package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/store"
)

// Checkout partitions the cart by owning artisan into one placed order per
// artisan, appends all of them in a single write, and clears the cart only
// after that write succeeds. The customer id comes from the session and is
// empty for anonymous checkouts.
func (s *Service) Checkout(ctx context.Context) ([]models.Order, error) {
	cart := s.Cart(ctx)
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	var customerID string
	if sess, ok := store.LoadOne[models.Session](ctx, s.store, store.SlotSession); ok {
		customerID = sess.ID
	}

	// partition preserving first-appearance order so checkout is deterministic
	groups := make(map[string][]models.CartItem)
	var artisanIDs []string
	for _, item := range cart {
		owner := item.ArtisanID
		if owner == "" {
			owner = models.UnknownArtisan
		}
		if _, seen := groups[owner]; !seen {
			artisanIDs = append(artisanIDs, owner)
		}
		groups[owner] = append(groups[owner], item)
	}

	now := time.Now()
	placed := make([]models.Order, 0, len(artisanIDs))
	for _, artisanID := range artisanIDs {
		placed = append(placed, models.Order{
			ID:         "order_" + uuid.NewString(),
			ArtisanID:  artisanID,
			CustomerID: customerID,
			Items:      groups[artisanID],
			Date:       now,
			Status:     models.OrderPlaced,
		})
	}

	err := store.Update(ctx, s.store, store.SlotOrders, func(all []models.Order) ([]models.Order, error) {
		return append(all, placed...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("append orders: %w", err)
	}
	if err := store.Save(ctx, s.store, store.SlotCart, []models.CartItem{}); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	s.logger.Info("checkout",
		zap.Int("orders", len(placed)),
		zap.String("customer_id", customerID))
	return placed, nil
}

// All returns every order (admin view).
func (s *Service) All(ctx context.Context) []models.Order {
	return store.Load[models.Order](ctx, s.store, store.SlotOrders)
}

// ForArtisan returns the orders an artisan owns: matched by the order's
// artisan id, by item-level ownership, or by items referencing one of the
// artisan's published products (pre-migration orders lack item owners).
func (s *Service) ForArtisan(ctx context.Context, artisanID string) []models.Order {
	if artisanID == "" {
		return nil
	}
	owned := s.ownedProductIDs(ctx, artisanID)

	var mine []models.Order
	for _, o := range s.All(ctx) {
		if s.owns(o, artisanID, owned) {
			mine = append(mine, o)
		}
	}
	return mine
}

// UpdateStatus advances an order along placed -> processing -> delivered.
// Only the owning artisan may call it, and regressions or repeats are
// rejected.
func (s *Service) UpdateStatus(ctx context.Context, artisanID, orderID string, next models.OrderStatus) (models.Order, error) {
	if !next.Valid() {
		return models.Order{}, ErrInvalidInput
	}
	owned := s.ownedProductIDs(ctx, artisanID)

	var updated models.Order
	err := store.Update(ctx, s.store, store.SlotOrders, func(all []models.Order) ([]models.Order, error) {
		for i, o := range all {
			if o.ID != orderID {
				continue
			}
			if !s.owns(o, artisanID, owned) {
				return nil, ErrForbidden
			}
			if !o.Status.CanAdvanceTo(next) {
				return nil, ErrInvalidTransition
			}
			all[i].Status = next
			updated = all[i]
			return all, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return models.Order{}, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(next)))
	return updated, nil
}

func (s *Service) owns(o models.Order, artisanID string, ownedProducts map[string]bool) bool {
	if o.ArtisanID == artisanID {
		return true
	}
	for _, it := range o.Items {
		if it.ArtisanID == artisanID {
			return true
		}
		if it.ProductID != "" && ownedProducts[it.ProductID] {
			return true
		}
	}
	return false
}

func (s *Service) ownedProductIDs(ctx context.Context, artisanID string) map[string]bool {
	owned := make(map[string]bool)
	for _, p := range store.Load[models.Product](ctx, s.store, store.SlotAdminProducts) {
		if p.ArtisanID == artisanID && p.ID != "" {
			owned[p.ID] = true
		}
	}
	return owned
}
