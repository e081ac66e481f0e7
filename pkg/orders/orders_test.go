package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	return NewService(m, zap.NewNop()), m
}

func vase(artisanID string, qty int) models.CartItem {
	return models.CartItem{
		ProductID: "p_" + artisanID,
		Name:      "Vase by " + artisanID,
		Price:     10,
		Quantity:  qty,
		ArtisanID: artisanID,
	}
}

func TestAddToCartMergesByName(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	item := vase("a1", 1)
	require.NoError(t, s.AddToCart(ctx, item))
	require.NoError(t, s.AddToCart(ctx, item))

	cart := s.Cart(ctx)
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.InDelta(t, 20, s.CartTotal(ctx), 1e-9)
}

func TestAddToCartDefaults(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, models.CartItem{Name: "bowl", Price: 5}))
	cart := s.Cart(ctx)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, models.UnknownArtisan, cart[0].ArtisanID)

	assert.ErrorIs(t, s.AddToCart(ctx, models.CartItem{Price: 5}), ErrInvalidInput)
	assert.ErrorIs(t, s.AddToCart(ctx, models.CartItem{Name: "bowl", Price: -1}), ErrInvalidInput)
}

func TestRemoveFromCart(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, vase("a1", 1)))
	require.NoError(t, s.AddToCart(ctx, vase("a2", 1)))

	require.NoError(t, s.RemoveFromCart(ctx, "Vase by a1"))
	cart := s.Cart(ctx)
	require.Len(t, cart, 1)
	assert.Equal(t, "Vase by a2", cart[0].Name)

	// removing an absent name is a no-op
	require.NoError(t, s.RemoveFromCart(ctx, "never added"))
	assert.Len(t, s.Cart(ctx), 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutPartitionsByArtisan(t *testing.T) {
	s, m := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOne(ctx, m, store.SlotSession, models.Session{
		ID: "cust_1", Username: "ravi", Role: models.RoleCustomer,
	}))
	require.NoError(t, s.AddToCart(ctx, vase("a1", 2)))
	require.NoError(t, s.AddToCart(ctx, vase("a2", 1)))
	require.NoError(t, s.AddToCart(ctx, models.CartItem{Name: "Bowl by a1", Price: 5, Quantity: 1, ArtisanID: "a1"}))

	placed, err := s.Checkout(ctx)
	require.NoError(t, err)
	require.Len(t, placed, 2)

	// first-appearance order is preserved
	assert.Equal(t, "a1", placed[0].ArtisanID)
	assert.Equal(t, "a2", placed[1].ArtisanID)
	assert.Len(t, placed[0].Items, 2)
	assert.Len(t, placed[1].Items, 1)

	for _, o := range placed {
		assert.Contains(t, o.ID, "order_")
		assert.Equal(t, models.OrderPlaced, o.Status)
		assert.Equal(t, "cust_1", o.CustomerID)
		assert.False(t, o.Date.IsZero())
	}
	assert.InDelta(t, 25, placed[0].Total(), 1e-9)
	assert.InDelta(t, 10, placed[1].Total(), 1e-9)

	assert.Empty(t, s.Cart(ctx), "cart is cleared after checkout")
	assert.Len(t, s.All(ctx), 2)
}

func TestCheckoutAnonymous(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, vase("a1", 1)))
	placed, err := s.Checkout(ctx)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Empty(t, placed[0].CustomerID)
}

func TestCheckoutAppends(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, vase("a1", 1)))
	first, err := s.Checkout(ctx)
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(ctx, vase("a1", 1)))
	_, err = s.Checkout(ctx)
	require.NoError(t, err)

	all := s.All(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, first[0].ID, all[0].ID, "earlier orders stay in place")
}

func TestForArtisan(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, vase("a1", 1)))
	require.NoError(t, s.AddToCart(ctx, vase("a2", 1)))
	_, err := s.Checkout(ctx)
	require.NoError(t, err)

	mine := s.ForArtisan(ctx, "a1")
	require.Len(t, mine, 1)
	assert.Equal(t, "a1", mine[0].ArtisanID)

	assert.Empty(t, s.ForArtisan(ctx, "a3"))
	assert.Empty(t, s.ForArtisan(ctx, ""))
}

func TestForArtisanLegacyOrders(t *testing.T) {
	// pre-migration orders carry no owner at all; item product ids are
	// matched against the artisan's published catalog
	s, m := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, m, store.SlotAdminProducts, []models.Product{
		{ID: "prod_1", Name: "Vase", Price: 10, ArtisanID: "a1", Status: models.ProductApproved},
	}))
	require.NoError(t, store.Save(ctx, m, store.SlotOrders, []models.Order{
		{ID: "order_legacy", ArtisanID: models.UnknownArtisan, Status: models.OrderPlaced, Items: []models.CartItem{
			{ProductID: "prod_1", Name: "Vase", Price: 10, Quantity: 1, ArtisanID: models.UnknownArtisan},
		}},
	}))

	mine := s.ForArtisan(ctx, "a1")
	require.Len(t, mine, 1)
	assert.Equal(t, "order_legacy", mine[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, vase("a1", 1)))
	placed, err := s.Checkout(ctx)
	require.NoError(t, err)
	orderID := placed[0].ID

	// not the owner
	_, err = s.UpdateStatus(ctx, "a2", orderID, models.OrderProcessing)
	assert.ErrorIs(t, err, ErrForbidden)

	// unknown status
	_, err = s.UpdateStatus(ctx, "a1", orderID, models.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// unknown order
	_, err = s.UpdateStatus(ctx, "a1", "missing", models.OrderProcessing)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := s.UpdateStatus(ctx, "a1", orderID, models.OrderProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, updated.Status)

	// regression and repeat are rejected
	_, err = s.UpdateStatus(ctx, "a1", orderID, models.OrderPlaced)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.UpdateStatus(ctx, "a1", orderID, models.OrderProcessing)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err = s.UpdateStatus(ctx, "a1", orderID, models.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, updated.Status)

	all := s.All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, models.OrderDelivered, all[0].Status)
}

func TestComputeStats(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	empty := s.ComputeStats(ctx)
	assert.Zero(t, empty.TotalOrders)
	assert.Zero(t, empty.AvgOrderValue)

	require.NoError(t, s.AddToCart(ctx, vase("a1", 2)))
	require.NoError(t, s.AddToCart(ctx, vase("a2", 1)))
	_, err := s.Checkout(ctx)
	require.NoError(t, err)

	stats := s.ComputeStats(ctx)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.InDelta(t, 30, stats.TotalRevenue, 1e-9)
	assert.InDelta(t, 15, stats.AvgOrderValue, 1e-9)
	assert.InDelta(t, 20, stats.PerArtisan["a1"].Revenue, 1e-9)
	assert.Equal(t, 1, stats.PerArtisan["a2"].Orders)
}
