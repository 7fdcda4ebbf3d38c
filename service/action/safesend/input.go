package safesend

import "github.com/viant/safesend/model"

// ContractInput identifies a contract for read-only methods.
type ContractInput struct {
	ContractID string `json:"contractId"`
}

// CallerInput identifies a contract and the calling account.
type CallerInput struct {
	ContractID string        `json:"contractId"`
	Caller     model.Address `json:"caller"`
}

type CreateInput struct {
	ContractID string        `json:"contractId"`
	Owner      model.Address `json:"owner"`
}

type CreateOutput struct {
	State *model.State `json:"state"`
}

type AddressOutput struct {
	Address model.Address `json:"address"`
}

type PendingOutput struct {
	Pending model.PendingTransfer `json:"pending"`
}

type SetGuardianInput struct {
	ContractID string        `json:"contractId"`
	Caller     model.Address `json:"caller"`
	Guardian   model.Address `json:"guardian"`
}

type SetLimitInput struct {
	ContractID string        `json:"contractId"`
	Caller     model.Address `json:"caller"`
	Limit      uint64        `json:"limit"`
}

type UpdateWhitelistInput struct {
	ContractID string        `json:"contractId"`
	Caller     model.Address `json:"caller"`
	Receiver   model.Address `json:"receiver"`
}

type InitiateTransferInput struct {
	ContractID string        `json:"contractId"`
	Caller     model.Address `json:"caller"`
	Receiver   model.Address `json:"receiver"`
	Amount     uint64        `json:"amount"`
}

type RequestTransactionInput struct {
	ContractID string        `json:"contractId"`
	Sender     model.Address `json:"sender"`
	Receiver   model.Address `json:"receiver"`
	Amount     uint64        `json:"amount"`
}

// MessageOutput carries the human readable result of a mutation.
type MessageOutput struct {
	Message string `json:"message"`
}

type TransferOutput struct {
	Message string         `json:"message"`
	Receipt *model.Receipt `json:"receipt,omitempty"`
}

type RequestTransactionOutput struct {
	Outcome string         `json:"outcome"`
	Message string         `json:"message"`
	Receipt *model.Receipt `json:"receipt,omitempty"`
}
