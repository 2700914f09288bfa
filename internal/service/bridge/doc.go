// Package bridge runs the speaker bridge simulator.
//
// The simulator serves a household described by a YAML layout over the
// speaker bridge gRPC service and optionally advertises itself over mDNS,
// so speaker-groupd can be exercised without real speakers.
package bridge
