// Package bridge defines the speakerbridge.v1.SpeakerBridge gRPC service.
//
// A speaker bridge is the process that actually talks to the speakers
// (SSDP discovery, UPnP zone group queries, AVTransport joins). This package
// carries the service descriptor, the client stub and a server adapter over
// any household implementing the directory interfaces. Handlers work on
// plain Go structs; wire.go converts them to the protobuf messages of
// internal/pb/v1 at the transport edge.
package bridge
