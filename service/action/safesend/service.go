// Package safesend exposes the contract as a table of named methods with
// typed input and output, the way an external execution environment invokes
// it.
package safesend

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/safesend/model"
	"github.com/viant/safesend/model/types"
	"github.com/viant/safesend/service/approval"
	"github.com/viant/safesend/service/contract"
	"github.com/viant/structology/conv"
)

const Name = "safesend"

// Service adapts contract.Service to types.Service.
type Service struct {
	contract  *contract.Service
	converter *conv.Converter
}

// New creates a method table over c.
func New(c *contract.Service) *Service {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	return &Service{contract: c, converter: conv.NewConverter(options)}
}

// Name returns the service Name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{Name: "create", Description: "Creates a contract owned by owner.", Input: reflect.TypeOf(&CreateInput{}), Output: reflect.TypeOf(&CreateOutput{})},
		{Name: "getOwner", ReadOnly: true, Input: reflect.TypeOf(&ContractInput{}), Output: reflect.TypeOf(&AddressOutput{})},
		{Name: "getWhitelist", ReadOnly: true, Input: reflect.TypeOf(&ContractInput{}), Output: reflect.TypeOf(&AddressOutput{})},
		{Name: "getGuardian", ReadOnly: true, Input: reflect.TypeOf(&ContractInput{}), Output: reflect.TypeOf(&AddressOutput{})},
		{Name: "getPending", ReadOnly: true, Input: reflect.TypeOf(&ContractInput{}), Output: reflect.TypeOf(&PendingOutput{})},
		{Name: "setGuardian", Input: reflect.TypeOf(&SetGuardianInput{}), Output: reflect.TypeOf(&MessageOutput{})},
		{Name: "setLimit", Input: reflect.TypeOf(&SetLimitInput{}), Output: reflect.TypeOf(&MessageOutput{})},
		{Name: "updateWhitelist", Input: reflect.TypeOf(&UpdateWhitelistInput{}), Output: reflect.TypeOf(&MessageOutput{})},
		{Name: "initiateTransfer", Description: "Stages a transfer awaiting owner confirmation.", Input: reflect.TypeOf(&InitiateTransferInput{}), Output: reflect.TypeOf(&MessageOutput{})},
		{Name: "confirmTransfer", Input: reflect.TypeOf(&CallerInput{}), Output: reflect.TypeOf(&TransferOutput{})},
		{Name: "cancelTransfer", Input: reflect.TypeOf(&CallerInput{}), Output: reflect.TypeOf(&MessageOutput{})},
		{Name: "requestTransaction", Description: "Auto-approves up to the safe limit, otherwise waits for the guardian.", Input: reflect.TypeOf(&RequestTransactionInput{}), Output: reflect.TypeOf(&RequestTransactionOutput{})},
		{Name: "approveTransaction", Input: reflect.TypeOf(&CallerInput{}), Output: reflect.TypeOf(&TransferOutput{})},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "create":
		return s.create, nil
	case "getowner":
		return s.getOwner, nil
	case "getwhitelist":
		return s.getWhitelist, nil
	case "getguardian":
		return s.getGuardian, nil
	case "getpending":
		return s.getPending, nil
	case "setguardian":
		return s.setGuardian, nil
	case "setlimit":
		return s.setLimit, nil
	case "updatewhitelist":
		return s.updateWhitelist, nil
	case "initiatetransfer":
		return s.initiateTransfer, nil
	case "confirmtransfer":
		return s.confirmTransfer, nil
	case "canceltransfer":
		return s.cancelTransfer, nil
	case "requesttransaction":
		return s.requestTransaction, nil
	case "approvetransaction":
		return s.approveTransaction, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

// Invoke runs method with input, converting loosely typed input (for example
// a map decoded from JSON) into the method input type.
func (s *Service) Invoke(ctx context.Context, method string, input interface{}) (interface{}, error) {
	var signature *types.Signature
	for _, candidate := range s.Methods() {
		if strings.EqualFold(candidate.Name, method) {
			signature = &candidate
			break
		}
	}
	if signature == nil {
		return nil, types.NewMethodNotFoundError(method)
	}
	executable, err := s.Method(signature.Name)
	if err != nil {
		return nil, err
	}
	typedInput := input
	if input == nil || reflect.TypeOf(input) != signature.Input {
		typedInput = reflect.New(signature.Input.Elem()).Interface()
		if input != nil {
			if err = s.converter.Convert(input, typedInput); err != nil {
				return nil, fmt.Errorf("failed to convert %s input: %w", signature.Name, err)
			}
		}
	}
	output := reflect.New(signature.Output.Elem()).Interface()
	if err = executable(ctx, typedInput, output); err != nil {
		return nil, err
	}
	return output, nil
}

func (s *Service) create(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CreateInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*CreateOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	state, err := s.contract.Create(ctx, input.ContractID, input.Owner)
	if err != nil {
		return err
	}
	output.State = state
	return nil
}

func (s *Service) getOwner(ctx context.Context, in, out interface{}) error {
	return s.address(ctx, in, out, s.contract.Owner)
}

func (s *Service) getWhitelist(ctx context.Context, in, out interface{}) error {
	return s.address(ctx, in, out, s.contract.Whitelist)
}

func (s *Service) getGuardian(ctx context.Context, in, out interface{}) error {
	return s.address(ctx, in, out, s.contract.Guardian)
}

func (s *Service) address(ctx context.Context, in, out interface{}, get func(ctx context.Context, contractID string) (model.Address, error)) error {
	input, ok := in.(*ContractInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*AddressOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	address, err := get(ctx, input.ContractID)
	if err != nil {
		return err
	}
	output.Address = address
	return nil
}

func (s *Service) getPending(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ContractInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*PendingOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	pending, err := s.contract.Pending(ctx, input.ContractID)
	if err != nil {
		return err
	}
	output.Pending = pending
	return nil
}

func (s *Service) setGuardian(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*SetGuardianInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*MessageOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if err := s.contract.SetGuardian(ctx, input.ContractID, input.Caller, input.Guardian); err != nil {
		return err
	}
	output.Message = "Guardian set successfully"
	return nil
}

func (s *Service) setLimit(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*SetLimitInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*MessageOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if err := s.contract.SetSafeLimit(ctx, input.ContractID, input.Caller, input.Limit); err != nil {
		return err
	}
	output.Message = "Safe limit set successfully"
	return nil
}

func (s *Service) updateWhitelist(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*UpdateWhitelistInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*MessageOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if err := s.contract.UpdateWhitelist(ctx, input.ContractID, input.Caller, input.Receiver); err != nil {
		return err
	}
	output.Message = "Whitelist updated successfully"
	return nil
}

func (s *Service) initiateTransfer(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*InitiateTransferInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*MessageOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if err := s.contract.InitiateTransfer(ctx, input.ContractID, input.Caller, input.Receiver, input.Amount); err != nil {
		return err
	}
	output.Message = fmt.Sprintf("Transfer pending owner confirmation for amount: %d", input.Amount)
	return nil
}

func (s *Service) confirmTransfer(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CallerInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*TransferOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	receipt, err := s.contract.ConfirmTransfer(ctx, input.ContractID, input.Caller)
	if err != nil {
		return err
	}
	output.Receipt = receipt
	output.Message = "Transfer successful"
	return nil
}

func (s *Service) cancelTransfer(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CallerInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*MessageOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if err := s.contract.CancelTransfer(ctx, input.ContractID, input.Caller); err != nil {
		return err
	}
	output.Message = "Transfer cancelled"
	return nil
}

func (s *Service) requestTransaction(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*RequestTransactionInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*RequestTransactionOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	decision, receipt, err := s.contract.RequestTransaction(ctx, input.ContractID, input.Sender, input.Receiver, input.Amount)
	if err != nil {
		return err
	}
	output.Outcome = string(decision.Outcome)
	output.Receipt = receipt
	switch decision.Outcome {
	case approval.OutcomeAutoApproved:
		output.Message = fmt.Sprintf("Transaction auto-approved: %d", input.Amount)
	default:
		output.Message = fmt.Sprintf("Transaction pending guardian approval for amount: %d", input.Amount)
	}
	return nil
}

func (s *Service) approveTransaction(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CallerInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*TransferOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	receipt, err := s.contract.ApproveTransaction(ctx, input.ContractID, input.Caller)
	if err != nil {
		return err
	}
	output.Receipt = receipt
	output.Message = fmt.Sprintf("Transaction approved by guardian for amount: %d", receipt.Amount)
	return nil
}

var _ types.Service = (*Service)(nil)
