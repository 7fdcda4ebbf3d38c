// Package model contains the persistent contract record and the value types
// shared by the SafeSend components: identities, roles, the pending transfer
// slot, transfer directives and dispatch receipts.
//
// The State record is the only mutable piece.  Components never hold on to a
// State between calls; the contract service clones it, hands the clone to the
// components and persists the result once the whole invocation succeeded.
package model
