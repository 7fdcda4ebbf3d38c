// Package safesend provides an authorization-and-release controller that
// gates movement of value out of a custodial account.
//
// An owner registers a trusted receiver (whitelist), optionally delegates
// approval of large transfers to a guardian and processes transfers through
// two modes:
//
//   - owner-confirmed: anyone stages a transfer with InitiateTransfer, the
//     owner confirms or cancels it;
//   - policy-driven: RequestTransaction checks the global cap and the
//     whitelist, dispatches immediately up to the safe limit and otherwise
//     waits for ApproveTransaction from the guardian.
//
// The package exposes a Service façade wiring the contract to a state store,
// a ledger and observers:
//
//	srv, _ := safesend.New(safesend.WithLogger(logger))
//	c := srv.Contract()
//	_, _ = c.Create(ctx, "vault", owner)
//	_ = c.SetSafeLimit(ctx, "vault", owner, 1000)
//	decision, receipt, err := c.RequestTransaction(ctx, "vault", owner, owner, 500)
//
// For more details see the individual sub-packages.
package safesend
