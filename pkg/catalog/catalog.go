// Package catalog implements the product approval workflow: artisan
// submissions sit in a pending queue until a consultant either publishes
// them or moves them to the rejection audit log. Both transitions are
// one-way and terminal.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/audit"
	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("not the owning artisan")
)

type Service struct {
	store  store.Store
	audit  *audit.Recorder
	logger *zap.Logger
}

func NewService(st store.Store, rec *audit.Recorder, logger *zap.Logger) *Service {
	return &Service{store: st, audit: rec, logger: logger}
}

// SubmitInput is an artisan's product submission. All four fields are
// required.
type SubmitInput struct {
	Name        string
	Price       float64
	ImageURL    string
	Description string
}

// Submit appends a new pending product owned by the submitting artisan.
func (s *Service) Submit(ctx context.Context, artisanID string, in SubmitInput) (models.Product, error) {
	if in.Name == "" || in.Price <= 0 || in.ImageURL == "" || in.Description == "" {
		return models.Product{}, ErrInvalidInput
	}
	if artisanID == "" {
		artisanID = models.UnknownArtisan
	}

	product := models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		ArtisanID:   artisanID,
		Status:      models.ProductPending,
	}
	err := store.Update(ctx, s.store, store.SlotPendingProducts, func(pending []models.Product) ([]models.Product, error) {
		return append([]models.Product{product}, pending...), nil
	})
	if err != nil {
		return models.Product{}, err
	}

	s.logger.Info("product submitted",
		zap.String("id", product.ID),
		zap.String("artisan_id", artisanID))
	return product, nil
}

// Pending returns the consultant's review queue.
func (s *Service) Pending(ctx context.Context) []models.Product {
	return store.Load[models.Product](ctx, s.store, store.SlotPendingProducts)
}

// Published returns the catalog visible to customers.
func (s *Service) Published(ctx context.Context) []models.Product {
	return store.Load[models.Product](ctx, s.store, store.SlotAdminProducts)
}

// Rejected returns the rejection audit log.
func (s *Service) Rejected(ctx context.Context) []models.RejectedProduct {
	return store.Load[models.RejectedProduct](ctx, s.store, store.SlotRejectedProducts)
}

// ForArtisan returns one artisan's products across both queues, published
// first.
func (s *Service) ForArtisan(ctx context.Context, artisanID string) []models.Product {
	var mine []models.Product
	for _, p := range s.Published(ctx) {
		if p.ArtisanID == artisanID {
			mine = append(mine, p)
		}
	}
	for _, p := range s.Pending(ctx) {
		if p.ArtisanID == artisanID {
			mine = append(mine, p)
		}
	}
	return mine
}

// Approve moves a pending product into the published catalog with its status
// flipped and every other field unchanged. An unknown id is a reported no-op.
func (s *Service) Approve(ctx context.Context, actor, id string) (models.Product, error) {
	pending := store.Load[models.Product](ctx, s.store, store.SlotPendingProducts)
	idx := indexByID(pending, id)
	if idx < 0 {
		return models.Product{}, ErrNotFound
	}

	product := pending[idx]
	product.Status = models.ProductApproved

	nextPending := append(pending[:idx:idx], pending[idx+1:]...)
	if err := store.Save(ctx, s.store, store.SlotPendingProducts, nextPending); err != nil {
		return models.Product{}, err
	}
	err := store.Update(ctx, s.store, store.SlotAdminProducts, func(published []models.Product) ([]models.Product, error) {
		return append([]models.Product{product}, published...), nil
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("publish product %s: %w", id, err)
	}

	s.audit.Record(actor, "approve_product", id, bson.M{"name": product.Name})
	s.logger.Info("product approved", zap.String("id", id), zap.String("actor", actor))
	return product, nil
}

// Reject moves a pending product to the rejection audit log with a timestamp
// and the supplied reason. The published catalog is untouched.
func (s *Service) Reject(ctx context.Context, actor, id, reason string) error {
	pending := store.Load[models.Product](ctx, s.store, store.SlotPendingProducts)
	idx := indexByID(pending, id)
	if idx < 0 {
		return ErrNotFound
	}

	rejected := models.RejectedProduct{
		Product:    pending[idx],
		RejectedAt: now(),
		Reason:     reason,
	}

	nextPending := append(pending[:idx:idx], pending[idx+1:]...)
	if err := store.Save(ctx, s.store, store.SlotPendingProducts, nextPending); err != nil {
		return err
	}
	err := store.Update(ctx, s.store, store.SlotRejectedProducts, func(log []models.RejectedProduct) ([]models.RejectedProduct, error) {
		return append([]models.RejectedProduct{rejected}, log...), nil
	})
	if err != nil {
		return fmt.Errorf("record rejection of %s: %w", id, err)
	}

	s.audit.Record(actor, "reject_product", id, bson.M{"reason": reason})
	s.logger.Info("product rejected", zap.String("id", id), zap.String("actor", actor))
	return nil
}

// Edit updates a product in place. Only the owning artisan may edit, and the
// write lands back in the queue the product currently lives in: editing never
// moves a product between pending and published.
func (s *Service) Edit(ctx context.Context, artisanID, id string, status models.ProductStatus, in SubmitInput) (models.Product, error) {
	if in.Name == "" || in.Price <= 0 || in.ImageURL == "" || in.Description == "" {
		return models.Product{}, ErrInvalidInput
	}

	var updated models.Product
	err := store.Update(ctx, s.store, slotForStatus(status), func(products []models.Product) ([]models.Product, error) {
		idx := indexByID(products, id)
		if idx < 0 {
			return nil, ErrNotFound
		}
		if products[idx].ArtisanID != artisanID {
			return nil, ErrForbidden
		}
		products[idx].Name = in.Name
		products[idx].Price = in.Price
		products[idx].ImageURL = in.ImageURL
		products[idx].Description = in.Description
		updated = products[idx]
		return products, nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// Delete removes an owned product from whichever queue currently holds it.
func (s *Service) Delete(ctx context.Context, artisanID, id string, status models.ProductStatus) error {
	return store.Update(ctx, s.store, slotForStatus(status), func(products []models.Product) ([]models.Product, error) {
		idx := indexByID(products, id)
		if idx < 0 {
			return nil, ErrNotFound
		}
		if products[idx].ArtisanID != artisanID {
			return nil, ErrForbidden
		}
		return append(products[:idx:idx], products[idx+1:]...), nil
	})
}

func slotForStatus(status models.ProductStatus) store.Slot {
	if status == models.ProductPending {
		return store.SlotPendingProducts
	}
	return store.SlotAdminProducts
}

func indexByID(products []models.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
