package interfaces

import (
	"context"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

// Payout moves value out of custody to an external address. It is invoked by
// the vault while its exclusive lock is held, so implementations must not
// call back into the vault.
type Payout interface {
	Transfer(ctx context.Context, to models.Address, amount uint64) error
}
