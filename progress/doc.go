// Package progress keeps aggregated contract activity counters (invocations,
// rejections, dispatches, staged transfers) fed from contract events.  A
// tracker is an event.Observer, so it can be attached next to the log and
// queue observers.
package progress
