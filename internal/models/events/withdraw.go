package events

import (
	"time"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

// TopicWithdraw carries one Withdraw event per successful withdrawal.
// Failed withdrawals emit nothing.
const TopicWithdraw = "withdraw"

type Withdraw struct {
	VaultAddress string         `json:"vault_address"`
	Owner        models.Address `json:"owner"`
	Amount       uint64         `json:"amount"`
	OccurredAt   time.Time      `json:"occurred_at"`
}
