// Package event implements the observability hook of the contract.  Every
// state transition, rejection and dispatch is reported to an Observer as an
// Event carrying a model.Transition.  Observers run after the decision has
// been made and cannot influence it.
package event
