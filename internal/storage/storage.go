package storage

import (
	"context"
)

// SlotStore is the interface for durable byte oriented key-value persistence. Every
// write replaces the whole slot.
type SlotStore interface {
	// GetSlot returns the data stored in a slot, model.ErrNotFound if the slot is absent.
	GetSlot(ctx context.Context, key string) ([]byte, error)
	// PutSlot creates or replaces the data of a slot.
	PutSlot(ctx context.Context, key string, data []byte) error
}
