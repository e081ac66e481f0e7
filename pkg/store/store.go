package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Slot names one persisted collection. Every entity lives in exactly one
// slot, serialized as a single JSON document.
type Slot string

const (
	SlotCustomers        Slot = "customers"
	SlotArtisans         Slot = "artisans"
	SlotArtisanRequests  Slot = "artisanRequests"
	SlotPendingProducts  Slot = "pendingProducts"
	SlotAdminProducts    Slot = "adminProducts"
	SlotRejectedProducts Slot = "rejectedProducts"
	SlotRejectedArtisans Slot = "rejectedArtisans"
	SlotOrders           Slot = "orders"
	SlotFeedbacks        Slot = "productFeedbacks"
	SlotCart             Slot = "cart"
	SlotSession          Slot = "user"
)

// ErrNotFound is returned by Get for a slot that has never been written.
var ErrNotFound = errors.New("slot not found")

// Store is the storage port: whole-document get/set per slot, plus change
// notification. Writes are last-writer-wins; there is no cross-slot
// transaction guarantee.
type Store interface {
	Get(ctx context.Context, slot Slot) ([]byte, error)
	Set(ctx context.Context, slot Slot, data []byte) error
	Delete(ctx context.Context, slot Slot) error

	// Subscribe registers fn to run after slot changes. It is a display
	// refresh hook, not a conflict-resolution mechanism. The returned
	// function cancels the subscription.
	Subscribe(slot Slot, fn func()) (cancel func())
}

// Load reads a slot as a []T. An absent slot, invalid JSON or a value of the
// wrong shape all load as an empty slice; storage corruption is recovered
// locally, never propagated.
func Load[T any](ctx context.Context, s Store, slot Slot) []T {
	data, err := s.Get(ctx, slot)
	if err != nil {
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

// Save writes items as the new full content of slot.
func Save[T any](ctx context.Context, s Store, slot Slot, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	if err := s.Set(ctx, slot, data); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

// Update runs one read-modify-write cycle over slot. If fn returns an error
// nothing is written.
func Update[T any](ctx context.Context, s Store, slot Slot, fn func([]T) ([]T, error)) error {
	next, err := fn(Load[T](ctx, s, slot))
	if err != nil {
		return err
	}
	return Save(ctx, s, slot, next)
}

// LoadOne reads a single-record slot (the session). ok is false when the slot
// is absent or unreadable.
func LoadOne[T any](ctx context.Context, s Store, slot Slot) (T, bool) {
	var v T
	data, err := s.Get(ctx, slot)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// SaveOne writes a single-record slot.
func SaveOne[T any](ctx context.Context, s Store, slot Slot, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	if err := s.Set(ctx, slot, data); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}
