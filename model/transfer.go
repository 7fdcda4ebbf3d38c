package model

import "time"

// Directive asks the ledger to move Amount to Receiver.
type Directive struct {
	ID         string    `json:"id"`
	ContractID string    `json:"contractId"`
	Receiver   Address   `json:"receiver"`
	Amount     uint64    `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Receipt identifies a directive accepted by the ledger.
type Receipt struct {
	ID          string    `json:"id"`
	Receiver    Address   `json:"receiver"`
	Amount      uint64    `json:"amount"`
	SubmittedAt time.Time `json:"submittedAt"`
	// Reference is the ledger side identifier (transaction id, outbox URL...)
	Reference string `json:"reference,omitempty"`
}

// Transition is the payload reported to observers on every state change,
// rejection and dispatch.
type Transition struct {
	ContractID string  `json:"contractId"`
	Operation  string  `json:"operation"`
	Caller     Address `json:"caller,omitempty"`
	From       Status  `json:"from,omitempty"`
	To         Status  `json:"to,omitempty"`
	Receiver   Address `json:"receiver,omitempty"`
	Amount     uint64  `json:"amount,omitempty"`
	Outcome    string  `json:"outcome,omitempty"`
	ReceiptID  string  `json:"receiptId,omitempty"`
	Error      string  `json:"error,omitempty"`
}
