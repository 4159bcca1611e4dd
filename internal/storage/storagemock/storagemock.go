// Package storagemock provides testify mocks for the storage interfaces.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/todo/internal/storage"
)

var _ storage.SlotStore = &MockSlotStore{}

// MockSlotStore is a mock implementation of storage.SlotStore.
type MockSlotStore struct {
	mock.Mock
}

// GetSlot provides a mock function.
func (m *MockSlotStore) GetSlot(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Error(1)
}

// PutSlot provides a mock function.
func (m *MockSlotStore) PutSlot(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}
