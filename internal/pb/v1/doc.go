// Package pb holds the protobuf schema of the speakerbridge.v1 service.
//
// bridge.proto is the source of truth. File mirrors it as a descriptor built
// with descriptorpb at init, and messages are created with dynamicpb, so the
// schema needs no protoc step. The gRPC wire format is regular protobuf.
package pb
