// Package tracing wires the contract operations to OpenTelemetry.  Each
// public contract operation runs inside a span; applications that never call
// Init get the no-op global tracer provider.
package tracing
