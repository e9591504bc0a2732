package vault

import "errors"

var (
	// ErrInvalidAmount rejects zero-value deposits and withdrawals.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNotOwner rejects outbound transfers by anyone but the owner.
	ErrNotOwner = errors.New("caller is not the vault owner")

	// ErrInsufficientBalance rejects withdrawals exceeding the held balance.
	ErrInsufficientBalance = errors.New("amount exceeds held balance")

	// ErrNothingToWithdraw rejects WithdrawAll on an empty vault.
	ErrNothingToWithdraw = errors.New("held balance is zero")

	// ErrTransferFailed wraps a payout failure. The withdrawal rolls back as
	// a unit: the balance is left untouched and no notification is emitted.
	ErrTransferFailed = errors.New("payout transfer failed")

	// ErrIndexOutOfRange rejects reads past the end of the payment log.
	ErrIndexOutOfRange = errors.New("entry index out of range")
)
