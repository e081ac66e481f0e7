package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/store"
)

// The artisan signup workflow mirrors the product one, one level up:
// pending request -> approved account or rejection audit entry.

// Requests returns the pending artisan signup queue.
func (s *Service) Requests(ctx context.Context) []models.ArtisanRequest {
	return store.Load[models.ArtisanRequest](ctx, s.store, store.SlotArtisanRequests)
}

// RejectedArtisans returns the signup rejection audit log.
func (s *Service) RejectedArtisans(ctx context.Context) []models.ArtisanRequest {
	return store.Load[models.ArtisanRequest](ctx, s.store, store.SlotRejectedArtisans)
}

// ApproveArtisan consumes a signup request and mints a new artisan account.
// The account gets a fresh id; the request id is discarded.
func (s *Service) ApproveArtisan(ctx context.Context, actor, requestID string) (models.Artisan, error) {
	reqs := store.Load[models.ArtisanRequest](ctx, s.store, store.SlotArtisanRequests)
	idx := indexRequest(reqs, requestID)
	if idx < 0 {
		return models.Artisan{}, ErrNotFound
	}

	req := reqs[idx]
	artisan := models.Artisan{
		ID:         "artisan_" + uuid.NewString(),
		Username:   req.Username,
		Password:   req.Password,
		Phone:      req.Phone,
		ApprovedAt: now(),
	}

	nextReqs := append(reqs[:idx:idx], reqs[idx+1:]...)
	if err := store.Save(ctx, s.store, store.SlotArtisanRequests, nextReqs); err != nil {
		return models.Artisan{}, err
	}
	err := store.Update(ctx, s.store, store.SlotArtisans, func(artisans []models.Artisan) ([]models.Artisan, error) {
		return append([]models.Artisan{artisan}, artisans...), nil
	})
	if err != nil {
		return models.Artisan{}, fmt.Errorf("store artisan %s: %w", artisan.ID, err)
	}

	s.audit.Record(actor, "approve_artisan", artisan.ID, bson.M{"username": artisan.Username, "request_id": requestID})
	s.logger.Info("artisan approved",
		zap.String("username", artisan.Username),
		zap.String("id", artisan.ID))
	return artisan, nil
}

// RejectArtisan consumes a signup request into the rejection audit log.
func (s *Service) RejectArtisan(ctx context.Context, actor, requestID, reason string) error {
	reqs := store.Load[models.ArtisanRequest](ctx, s.store, store.SlotArtisanRequests)
	idx := indexRequest(reqs, requestID)
	if idx < 0 {
		return ErrNotFound
	}

	req := reqs[idx]
	req.RejectedAt = now()
	req.Reason = reason

	nextReqs := append(reqs[:idx:idx], reqs[idx+1:]...)
	if err := store.Save(ctx, s.store, store.SlotArtisanRequests, nextReqs); err != nil {
		return err
	}
	err := store.Update(ctx, s.store, store.SlotRejectedArtisans, func(log []models.ArtisanRequest) ([]models.ArtisanRequest, error) {
		return append([]models.ArtisanRequest{req}, log...), nil
	})
	if err != nil {
		return fmt.Errorf("record rejection of %s: %w", requestID, err)
	}

	s.audit.Record(actor, "reject_artisan", requestID, bson.M{"username": req.Username, "reason": reason})
	s.logger.Info("artisan rejected", zap.String("username", req.Username))
	return nil
}

func indexRequest(reqs []models.ArtisanRequest, id string) int {
	for i, r := range reqs {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func now() time.Time {
	return time.Now()
}
