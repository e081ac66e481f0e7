package catalog

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
	return NewService(m, nil, zap.NewNop()), m
}

func submitVase(t *testing.T, s *Service, artisanID string) models.Product {
	t.Helper()
	p, err := s.Submit(context.Background(), artisanID, SubmitInput{
		Name:        "Clay Vase",
		Price:       10,
		ImageURL:    "https://img.example/vase.jpg",
		Description: "Hand-thrown terracotta vase",
	})
	require.NoError(t, err)
	return p
}

func TestSubmitValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	cases := []SubmitInput{
		{Price: 10, ImageURL: "u", Description: "d"},
		{Name: "n", Price: 0, ImageURL: "u", Description: "d"},
		{Name: "n", Price: -1, ImageURL: "u", Description: "d"},
		{Name: "n", Price: 10, Description: "d"},
		{Name: "n", Price: 10, ImageURL: "u"},
	}
	for _, in := range cases {
		_, err := s.Submit(ctx, "artisan_1", in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, s.Pending(ctx))
}

func TestSubmitQueuesPending(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	p := submitVase(t, s, "artisan_1")
	assert.Equal(t, models.ProductPending, p.Status)
	assert.Equal(t, "artisan_1", p.ArtisanID)

	pending := s.Pending(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].ID)
	assert.Empty(t, s.Published(ctx))
}

func TestSubmitWithoutArtisanGetsSentinel(t *testing.T) {
	s, _ := newTestService(t)
	p := submitVase(t, s, "")
	assert.Equal(t, models.UnknownArtisan, p.ArtisanID)
}

func TestApproveMovesToPublished(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	p := submitVase(t, s, "artisan_1")
	approved, err := s.Approve(ctx, "consultant", p.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ProductApproved, approved.Status)
	assert.Equal(t, p.ID, approved.ID)
	assert.Equal(t, p.Price, approved.Price)

	assert.Empty(t, s.Pending(ctx))
	published := s.Published(ctx)
	require.Len(t, published, 1)
	assert.Equal(t, models.ProductApproved, published[0].Status)
}

func TestApproveUnknownID(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Approve(context.Background(), "consultant", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectMovesToAuditLog(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	p := submitVase(t, s, "artisan_1")
	require.NoError(t, s.Reject(ctx, "consultant", p.ID, "blurry photo"))

	assert.Empty(t, s.Pending(ctx))
	assert.Empty(t, s.Published(ctx))

	rejected := s.Rejected(ctx)
	require.Len(t, rejected, 1)
	assert.Equal(t, p.ID, rejected[0].ID)
	assert.Equal(t, "blurry photo", rejected[0].Reason)
	assert.False(t, rejected[0].RejectedAt.IsZero())

	assert.ErrorIs(t, s.Reject(ctx, "consultant", p.ID, ""), ErrNotFound)
}

func TestForArtisanPublishedFirst(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	first := submitVase(t, s, "artisan_1")
	_, err := s.Approve(ctx, "consultant", first.ID)
	require.NoError(t, err)
	second := submitVase(t, s, "artisan_1")
	submitVase(t, s, "artisan_2")

	mine := s.ForArtisan(ctx, "artisan_1")
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, second.ID, mine[1].ID)
}

func TestEditOwnedProduct(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	p := submitVase(t, s, "artisan_1")

	updated, err := s.Edit(ctx, "artisan_1", p.ID, models.ProductPending, SubmitInput{
		Name:        "Glazed Vase",
		Price:       12,
		ImageURL:    p.ImageURL,
		Description: p.Description,
	})
	require.NoError(t, err)
	assert.Equal(t, "Glazed Vase", updated.Name)
	assert.Equal(t, 12.0, updated.Price)
	assert.Equal(t, models.ProductPending, updated.Status)

	pending := s.Pending(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, "Glazed Vase", pending[0].Name)
}

func TestEditRejectsNonOwner(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	p := submitVase(t, s, "artisan_1")
	_, err := s.Edit(ctx, "artisan_2", p.ID, models.ProductPending, SubmitInput{
		Name: "Stolen Vase", Price: 1, ImageURL: "u", Description: "d",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteOwnedProduct(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	p := submitVase(t, s, "artisan_1")
	_, err := s.Approve(ctx, "consultant", p.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, "artisan_2", p.ID, models.ProductApproved), ErrForbidden)
	require.NoError(t, s.Delete(ctx, "artisan_1", p.ID, models.ProductApproved))
	assert.Empty(t, s.Published(ctx))

	assert.ErrorIs(t, s.Delete(ctx, "artisan_1", p.ID, models.ProductApproved), ErrNotFound)
}

func TestApproveArtisanMintsAccount(t *testing.T) {
	s, m := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, m, store.SlotArtisanRequests, []models.ArtisanRequest{
		{ID: "artisan_req_1", Username: "potter", Password: "clay", Phone: "777", Status: "pending"},
	}))

	artisan, err := s.ApproveArtisan(ctx, "consultant", "artisan_req_1")
	require.NoError(t, err)
	assert.Contains(t, artisan.ID, "artisan_")
	assert.NotEqual(t, "artisan_req_1", artisan.ID, "account id must be freshly minted")
	assert.Equal(t, "potter", artisan.Username)
	assert.False(t, artisan.ApprovedAt.IsZero())

	assert.Empty(t, s.Requests(ctx))
	artisans := store.Load[models.Artisan](ctx, m, store.SlotArtisans)
	require.Len(t, artisans, 1)

	_, err = s.ApproveArtisan(ctx, "consultant", "artisan_req_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectArtisan(t *testing.T) {
	s, m := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, m, store.SlotArtisanRequests, []models.ArtisanRequest{
		{ID: "artisan_req_1", Username: "potter", Password: "clay", Phone: "777", Status: "pending"},
	}))

	require.NoError(t, s.RejectArtisan(ctx, "consultant", "artisan_req_1", "no portfolio"))

	assert.Empty(t, s.Requests(ctx))
	assert.Empty(t, store.Load[models.Artisan](ctx, m, store.SlotArtisans))

	log := s.RejectedArtisans(ctx)
	require.Len(t, log, 1)
	assert.Equal(t, "no portfolio", log[0].Reason)
	assert.False(t, log[0].RejectedAt.IsZero())
}
