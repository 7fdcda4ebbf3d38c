package approval

import "github.com/viant/safesend/model"

// Outcome of a transfer classification.
type Outcome string

const (
	OutcomeAutoApproved  Outcome = "AUTO_APPROVED"
	OutcomeNeedsGuardian Outcome = "NEEDS_GUARDIAN"
	OutcomeRejected      Outcome = "REJECTED"
)

// Decision represents the classification of a transfer request.
type Decision struct {
	Outcome  Outcome       `json:"outcome"`
	Sender   model.Address `json:"sender,omitempty"`
	Receiver model.Address `json:"receiver"`
	Amount   uint64        `json:"amount"`
	// Reason is one of the model sentinel errors when Outcome is REJECTED.
	Reason error `json:"-"`
}

// IsRejected returns true for rejected requests.
func (d *Decision) IsRejected() bool {
	return d != nil && d.Outcome == OutcomeRejected
}

// Err returns Reason for rejected decisions and nil otherwise.
func (d *Decision) Err() error {
	if d.IsRejected() {
		return d.Reason
	}
	return nil
}
