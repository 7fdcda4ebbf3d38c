// Package approval classifies transfer requests against the global cap, the
// whitelist and the safe limit, and drives the guardian sign-off of requests
// that exceed the safe limit.
package approval
