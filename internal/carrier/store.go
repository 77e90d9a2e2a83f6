// Package carrier moves session state between screens through a string
// key/value store, the same contract a browser's local storage provides.
package carrier

import (
	"context"
	"sync"
)

// Keys written by one screen and read by the next.
const (
	KeyExtractedItems = "extractedItems" // scan -> edit-receipt

	KeyReceiptItems = "receiptItems" // edit-receipt / manual-entry -> assign-items
	KeyReceiptTip   = "receiptTip"
	KeyReceiptTax   = "receiptTax"

	KeyFinalItems  = "finalItems" // assign-items -> split-summary
	KeyFinalPeople = "finalPeople"
	KeyFinalTip    = "finalTip"
	KeyFinalTax    = "finalTax"
)

// AllKeys lists every key the pipeline uses, in pipeline order.
var AllKeys = []string{
	KeyExtractedItems,
	KeyReceiptItems, KeyReceiptTip, KeyReceiptTax,
	KeyFinalItems, KeyFinalPeople, KeyFinalTip, KeyFinalTax,
}

// Store defines the interface for carrier storage operations.
// This abstraction allows swapping backends (in-memory, SQLite file)
// without changing the pipeline.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases any resources held by the store.
	Close() error
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps carrier values for the lifetime of the process, like a
// single browser tab.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
