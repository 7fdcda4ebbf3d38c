// Package policy holds the owner-tunable transfer policy: the guardian that
// signs off large transfers and the safe limit below which transfers are
// approved automatically.
package policy
