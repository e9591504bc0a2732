package interfaces

import (
	"context"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

// EntryStore is a durable, append-only mirror of accepted deposits. An entry
// is keyed by (vault address, entry index) so a deposit is recorded exactly
// once; saving an index that already exists is an error.
type EntryStore interface {
	SaveEntry(ctx context.Context, vaultAddress string, index int, entry models.PaymentEntry) error
	GetEntries(ctx context.Context, vaultAddress string) ([]models.PaymentEntry, error)
}
