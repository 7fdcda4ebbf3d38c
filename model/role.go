package model

// Role identifies which identity an operation requires.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleGuardian Role = "guardian"
	RoleAny      Role = "any"
)
