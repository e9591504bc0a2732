package events

import (
	"time"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

// TopicPaymentReceived carries one PaymentReceived event per accepted
// deposit, in deposit order.
const TopicPaymentReceived = "payment_received"

type PaymentReceived struct {
	VaultAddress string         `json:"vault_address"`
	Sender       models.Address `json:"sender"`
	Amount       uint64         `json:"amount"`
	Timestamp    time.Time      `json:"timestamp"`
}
