// Package supervisor keeps the reconciliation loop alive.
//
// A Supervisor runs one pass, logs its outcome and sleeps a fixed interval
// before the next one. Returned errors and panics end the pass, never the
// loop; only cancellation of the process context stops it.
//
// Run in command.go wires the daemon: configuration, bridge connection,
// reconciler, metrics and the optional metrics endpoint.
package supervisor
