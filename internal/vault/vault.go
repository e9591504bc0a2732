// Package vault implements the custodial ledger engine: an append-only
// payment log, a held balance derived from it, and owner-gated withdrawal.
package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/interfaces"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/models"
	"github.com/sheikh-saqib/custodial-payment-vault/internal/models/events"
)

// Address identifies a caller or a payout destination.
type Address = models.Address

// Clock supplies the acceptance timestamp for deposits. Injectable so tests
// can run against deterministic time.
type Clock func() time.Time

// Vault holds custody of value on behalf of a single owner. Anyone may
// deposit; every accepted deposit is appended to an immutable payment log;
// only the owner may withdraw. The held balance is always the sum of recorded
// deposits minus the sum of completed withdrawals.
//
// All state is exclusively owned by the instance. Mutating operations run one
// at a time under the write lock, held for the whole operation including the
// external payout step, so a nested or concurrent call can never observe a
// stale balance mid-withdrawal. Reads may run concurrently with each other.
type Vault struct {
	mu      sync.RWMutex
	address string
	owner   Address
	entries []models.PaymentEntry
	balance uint64

	store  interfaces.EntryStore
	events interfaces.EventPublisher
	payout interfaces.Payout
	now    Clock
}

// Option wires an optional collaborator into a Vault at construction.
type Option func(*Vault)

// WithEntryStore attaches a durable mirror for accepted deposits. A store
// failure aborts the deposit before any in-memory state changes.
func WithEntryStore(s interfaces.EntryStore) Option {
	return func(v *Vault) { v.store = s }
}

// WithEventPublisher attaches the notification stream.
func WithEventPublisher(p interfaces.EventPublisher) Option {
	return func(v *Vault) { v.events = p }
}

// WithPayout attaches the outbound settlement rail used by withdrawals.
// Without one, payouts are assumed to always succeed.
func WithPayout(p interfaces.Payout) Option {
	return func(v *Vault) { v.payout = p }
}

// WithClock overrides the deposit timestamp source.
func WithClock(c Clock) Option {
	return func(v *Vault) { v.now = c }
}

// WithAddress overrides the generated vault address.
func WithAddress(addr string) Option {
	return func(v *Vault) { v.address = addr }
}

// New constructs an empty vault owned by the creator. The owner is fixed for
// the life of the instance; there is no ownership transfer.
func New(owner Address, opts ...Option) *Vault {
	v := &Vault{
		address: uuid.NewString(),
		owner:   owner,
		entries: make([]models.PaymentEntry, 0),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Deposit accepts a positive value transfer from sender and returns the index
// of the recorded entry. A zero amount fails with ErrInvalidAmount and leaves
// no trace. Named deposit calls, unrecognised selectors carrying value, and
// bare transfers all land here; there is exactly one bookkeeping path.
func (v *Vault) Deposit(ctx context.Context, sender Address, amount uint64) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount == 0 {
		return 0, ErrInvalidAmount
	}

	entry := models.PaymentEntry{
		Sender:    sender,
		Amount:    amount,
		Timestamp: v.now(),
	}
	index := len(v.entries)

	// Durable record first: if the mirror rejects the entry the deposit
	// fails whole, with no in-memory state change.
	if v.store != nil {
		if err := v.store.SaveEntry(ctx, v.address, index, entry); err != nil {
			return 0, fmt.Errorf("record entry: %w", err)
		}
	}

	v.entries = append(v.entries, entry)
	v.balance += amount

	v.publish(events.TopicPaymentReceived, events.PaymentReceived{
		VaultAddress: v.address,
		Sender:       sender,
		Amount:       amount,
		Timestamp:    entry.Timestamp,
	})
	return index, nil
}

// Withdraw moves amount from custody to the owner's address. Only the owner
// may call it. The balance is decremented before the payout is attempted and
// the lock is held across the payout, so a failed transfer rolls the whole
// operation back inside the same critical section and a second withdrawal can
// never act on a balance about to leave custody.
func (v *Vault) Withdraw(ctx context.Context, caller Address, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.withdrawLocked(ctx, caller, amount)
}

// WithdrawAll withdraws the entire held balance and reports the amount moved.
// Fails with ErrNothingToWithdraw when the vault is empty.
func (v *Vault) WithdrawAll(ctx context.Context, caller Address) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if caller != v.owner {
		return 0, ErrNotOwner
	}
	if v.balance == 0 {
		return 0, ErrNothingToWithdraw
	}
	amount := v.balance
	if err := v.withdrawLocked(ctx, caller, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

func (v *Vault) withdrawLocked(ctx context.Context, caller Address, amount uint64) error {
	if caller != v.owner {
		return ErrNotOwner
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if amount > v.balance {
		return ErrInsufficientBalance
	}

	v.balance -= amount
	if v.payout != nil {
		if err := v.payout.Transfer(ctx, v.owner, amount); err != nil {
			v.balance += amount
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}

	// Withdrawals are not appended to the payment log; the log records
	// inbound transfers only. The notification stream is the only outbound
	// audit trail.
	v.publish(events.TopicWithdraw, events.Withdraw{
		VaultAddress: v.address,
		Owner:        v.owner,
		Amount:       amount,
		OccurredAt:   v.now(),
	})
	return nil
}

// Custody state is already committed when an event goes out; a failed
// publish must not unwind it. Observers reconcile via the read surface.
func (v *Vault) publish(topic string, event any) {
	if v.events == nil {
		return
	}
	_ = v.events.Publish(topic, event)
}

// Address returns the instance address assigned at construction.
func (v *Vault) Address() string {
	return v.address
}

// Owner returns the identity permitted to withdraw.
func (v *Vault) Owner() Address {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.owner
}

// HeldBalance returns the current custody balance in minor units.
func (v *Vault) HeldBalance() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.balance
}

// Count returns the number of recorded payment entries.
func (v *Vault) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// EntryAt returns the payment entry at index.
func (v *Vault) EntryAt(index int) (models.PaymentEntry, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if index < 0 || index >= len(v.entries) {
		return models.PaymentEntry{}, ErrIndexOutOfRange
	}
	return v.entries[index], nil
}

// AllEntries returns the whole payment log as three parallel slices in
// insertion order. Unbounded: fine at demo scale, use Entries for anything
// expected to grow.
func (v *Vault) AllEntries() ([]Address, []uint64, []time.Time) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	senders := make([]Address, len(v.entries))
	amounts := make([]uint64, len(v.entries))
	timestamps := make([]time.Time, len(v.entries))
	for i, e := range v.entries {
		senders[i] = e.Sender
		amounts[i] = e.Amount
		timestamps[i] = e.Timestamp
	}
	return senders, amounts, timestamps
}

// Entries returns a copy of the payment log window starting at offset,
// together with the log length observed under the same lock, so the pair is
// always mutually consistent. A limit <= 0 means "to the end". An offset past
// the log yields an empty slice; a negative offset is an error.
func (v *Vault) Entries(offset, limit int) ([]models.PaymentEntry, int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	total := len(v.entries)
	if offset < 0 {
		return nil, 0, ErrIndexOutOfRange
	}
	if offset >= total {
		return []models.PaymentEntry{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	window := make([]models.PaymentEntry, end-offset)
	copy(window, v.entries[offset:end])
	return window, total, nil
}
