// Package payout provides outbound settlement sinks for withdrawals.
package payout

import (
	"context"
	"sync"
	"time"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/interfaces"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
)

// Transfer is one completed outbound movement of value.
type Transfer struct {
	To     models.Address `json:"to"`
	Amount uint64         `json:"amount"`
	At     time.Time      `json:"at"`
}

// Recorder journals every outbound transfer and always succeeds. It stands in
// for a real settlement rail; deployments fronting a bank or chain implement
// interfaces.Payout against that rail instead.
type Recorder struct {
	mu        sync.Mutex
	transfers []Transfer
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Transfer(_ context.Context, to models.Address, amount uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transfers = append(r.transfers, Transfer{
		To:     to,
		Amount: amount,
		At:     time.Now().UTC(),
	})
	return nil
}

// Transfers returns a copy of the journal in settlement order.
func (r *Recorder) Transfers() []Transfer {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]Transfer, len(r.transfers))
	copy(copied, r.transfers)
	return copied
}

var _ interfaces.Payout = (*Recorder)(nil)
