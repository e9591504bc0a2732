package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/interfaces"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

// EntryStore is an in-memory implementation of interfaces.EntryStore, keyed
// by vault address. It is thread-safe and enforces the same exactly-once
// append discipline as the Postgres store: an entry index can be written only
// once, and only at the end of the log.
type EntryStore struct {
	mu      sync.Mutex
	entries map[string][]models.PaymentEntry
}

func NewEntryStore() *EntryStore {
	return &EntryStore{
		entries: make(map[string][]models.PaymentEntry),
	}
}

func (m *EntryStore) SaveEntry(_ context.Context, vaultAddress string, index int, entry models.PaymentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.entries[vaultAddress]
	if index < len(log) {
		return fmt.Errorf("entry %d for vault %s already recorded", index, vaultAddress)
	}
	if index > len(log) {
		return fmt.Errorf("entry %d for vault %s would leave a gap (log has %d)", index, vaultAddress, len(log))
	}

	m.entries[vaultAddress] = append(log, entry)
	return nil
}

// GetEntries returns a copy of the recorded deposits for a vault so callers
// cannot mutate internal state.
func (m *EntryStore) GetEntries(_ context.Context, vaultAddress string) ([]models.PaymentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.entries[vaultAddress]
	copied := make([]models.PaymentEntry, len(log))
	copy(copied, log)
	return copied, nil
}

var _ interfaces.EntryStore = (*EntryStore)(nil)
