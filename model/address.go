package model

import "strings"

// ZeroAddress is the all-zero account identity of the ledger.
const ZeroAddress Address = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAY5HFKQ"

// Address represents an authenticated account identity.
type Address string

// IsZero returns true for the empty identity and ZeroAddress.
func (a Address) IsZero() bool {
	v := strings.TrimSpace(string(a))
	return v == "" || Address(v) == ZeroAddress
}

// String returns the address text
func (a Address) String() string {
	return string(a)
}
