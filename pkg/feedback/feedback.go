// Package feedback keeps the append-only product comment log. Guests may
// write; only an admin may delete.
package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/store"
)

var (
	ErrEmptyText = errors.New("feedback text is empty")
	ErrNotFound  = errors.New("feedback not found")
)

const guestAuthorID = "guest"

type Service struct {
	store  store.Store
	logger *zap.Logger
}

func NewService(st store.Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Add attaches a comment to a product. The author comes from the current
// session; without one the entry is recorded as guest.
func (s *Service) Add(ctx context.Context, productID, text string) (models.Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Feedback{}, ErrEmptyText
	}

	authorID := guestAuthorID
	authorName := "Guest"
	if sess, ok := store.LoadOne[models.Session](ctx, s.store, store.SlotSession); ok && sess.ID != "" {
		authorID = sess.ID
		authorName = sess.Username
	}

	entry := models.Feedback{
		ID:         "fb_" + uuid.NewString(),
		ProductID:  productID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		Date:       time.Now(),
	}
	err := store.Update(ctx, s.store, store.SlotFeedbacks, func(all []models.Feedback) ([]models.Feedback, error) {
		return append([]models.Feedback{entry}, all...), nil
	})
	if err != nil {
		return models.Feedback{}, err
	}
	return entry, nil
}

// All returns every feedback entry, newest first.
func (s *Service) All(ctx context.Context) []models.Feedback {
	return store.Load[models.Feedback](ctx, s.store, store.SlotFeedbacks)
}

// ForProduct filters the log down to one product.
func (s *Service) ForProduct(ctx context.Context, productID string) []models.Feedback {
	var out []models.Feedback
	for _, f := range s.All(ctx) {
		if f.ProductID == productID {
			out = append(out, f)
		}
	}
	return out
}

// Delete removes one entry unconditionally. Admin only; the gateway enforces
// the role.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := store.Update(ctx, s.store, store.SlotFeedbacks, func(all []models.Feedback) ([]models.Feedback, error) {
		next := make([]models.Feedback, 0, len(all))
		found := false
		for _, f := range all {
			if f.ID == id {
				found = true
				continue
			}
			next = append(next, f)
		}
		if !found {
			return nil, ErrNotFound
		}
		return next, nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("feedback deleted", zap.String("id", id))
	return nil
}
