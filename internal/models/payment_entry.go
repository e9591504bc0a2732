package models

import "time"

// Address is the identity a caller is authenticated as for a given call.
type Address string

// PaymentEntry is one accepted inbound value transfer. Entries are immutable
// once created and are never deleted; the payment log records deposits only.
type PaymentEntry struct {
	Sender    Address   `json:"sender"`
	Amount    uint64    `json:"amount"` // minor units, always > 0
	Timestamp time.Time `json:"timestamp"`
}
