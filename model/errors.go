package model

import (
	"errors"
	"fmt"
)

// Every rejected invocation surfaces one of the sentinels below; callers are
// expected to test with errors.Is since messages carry extra context.
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrZeroAddressRejected    = errors.New("zero address rejected")
	ErrAmountExceedsLimit     = errors.New("amount exceeds limit")
	ErrReceiverNotWhitelisted = errors.New("receiver not whitelisted")
	ErrNoPendingTransaction   = errors.New("no pending transaction")
	ErrGuardianNotSet         = errors.New("guardian not set")
	ErrLedgerDispatchFailed   = errors.New("ledger dispatch failed")

	// ErrNotFound is returned when no contract exists under the requested id.
	ErrNotFound = errors.New("contract not found")
	// ErrAlreadyCreated is returned when Create targets an existing contract.
	ErrAlreadyCreated = errors.New("contract already created")
	// ErrTransferPending is returned by initiate/request when overwriting the
	// pending slot has been disabled.
	ErrTransferPending = errors.New("transfer already pending")
)

// DispatchError carries the ledger failure behind ErrLedgerDispatchFailed.
type DispatchError struct {
	Receiver Address
	Amount   uint64
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%v: transfer of %d to %s: %v", ErrLedgerDispatchFailed, e.Amount, e.Receiver, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Is matches ErrLedgerDispatchFailed.
func (e *DispatchError) Is(target error) bool {
	return target == ErrLedgerDispatchFailed
}
