package model

import "time"

// MaxAmount caps any single transfer regardless of the safe limit.
const MaxAmount uint64 = 1_000_000

// Status of the pending transfer slot.
type Status string

const (
	StatusNone    Status = "NONE"
	StatusPending Status = "PENDING"
)

// Mode tells which resolution a pending transfer waits for.
type Mode string

const (
	// ModeOwnerConfirm entries are staged by initiate and resolved by the owner.
	ModeOwnerConfirm Mode = "owner-confirm"
	// ModeGuardianApprove entries are recorded by a request above the safe limit.
	ModeGuardianApprove Mode = "guardian-approve"
)

// PendingTransfer is the single outstanding transfer slot.  When Status is
// StatusNone all other fields are zero.
type PendingTransfer struct {
	Receiver    Address    `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	Amount      uint64     `json:"amount,omitempty" yaml:"amount,omitempty"`
	Status      Status     `json:"status" yaml:"status"`
	Mode        Mode       `json:"mode,omitempty" yaml:"mode,omitempty"`
	RequestedBy Address    `json:"requestedBy,omitempty" yaml:"requestedBy,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// IsPending returns true when the slot holds a transfer.
func (p *PendingTransfer) IsPending() bool {
	return p != nil && p.Status == StatusPending
}

// Clear resets the slot to StatusNone.
func (p *PendingTransfer) Clear() {
	*p = PendingTransfer{Status: StatusNone}
}

// State is the persistent contract record.
type State struct {
	ID                  string          `json:"id" yaml:"id"`
	Owner               Address         `json:"owner" yaml:"owner"`
	Guardian            Address         `json:"guardian,omitempty" yaml:"guardian,omitempty"`
	SafeLimit           uint64          `json:"safeLimit" yaml:"safeLimit"`
	WhitelistedReceiver Address         `json:"whitelistedReceiver" yaml:"whitelistedReceiver"`
	Pending             PendingTransfer `json:"pending" yaml:"pending"`
	Version             int             `json:"version" yaml:"version"`
	UpdatedAt           time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// NewState returns the record a freshly created contract starts with.
func NewState(id string, owner Address) *State {
	return &State{
		ID:                  id,
		Owner:               owner,
		WhitelistedReceiver: owner,
		Pending:             PendingTransfer{Status: StatusNone},
	}
}

// HasGuardian returns true when a guardian has been configured.
func (s *State) HasGuardian() bool {
	return !s.Guardian.IsZero()
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	ret := *s
	if s.Pending.CreatedAt != nil {
		ts := *s.Pending.CreatedAt
		ret.Pending.CreatedAt = &ts
	}
	return &ret
}
