package contract

// Operation names, used for spans and events.
const (
	OpCreate             = "create"
	OpSetGuardian        = "setGuardian"
	OpSetSafeLimit       = "setSafeLimit"
	OpApplyPolicy        = "applyPolicy"
	OpUpdateWhitelist    = "updateWhitelist"
	OpInitiateTransfer   = "initiateTransfer"
	OpConfirmTransfer    = "confirmTransfer"
	OpCancelTransfer     = "cancelTransfer"
	OpRequestTransaction = "requestTransaction"
	OpApproveTransaction = "approveTransaction"
)
