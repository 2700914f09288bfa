package pb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	// Package is the protobuf package of the bridge schema.
	Package = "speakerbridge.v1"
	// Path is the registered path of the schema file.
	Path = "speakerbridge/v1/bridge.proto"
)

// Message names of the bridge schema.
const (
	Device                 protoreflect.Name = "Device"
	ZoneGroup              protoreflect.Name = "ZoneGroup"
	DiscoverRequest        protoreflect.Name = "DiscoverRequest"
	DiscoverResponse       protoreflect.Name = "DiscoverResponse"
	FindRequest            protoreflect.Name = "FindRequest"
	FindResponse           protoreflect.Name = "FindResponse"
	DescribeRequest        protoreflect.Name = "DescribeRequest"
	DescribeResponse       protoreflect.Name = "DescribeResponse"
	ZoneGroupStateRequest  protoreflect.Name = "ZoneGroupStateRequest"
	ZoneGroupStateResponse protoreflect.Name = "ZoneGroupStateResponse"
	JoinRequest            protoreflect.Name = "JoinRequest"
	JoinResponse           protoreflect.Name = "JoinResponse"
)

// File is the descriptor of bridge.proto.
//
//nolint:gochecknoglobals // Descriptors are package-level like generated code.
var File protoreflect.FileDescriptor

func init() { //nolint:gochecknoinits // The descriptor must exist before any message is built.
	file, err := protodesc.NewFile(fileProto(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("build %s descriptor: %v", Path, err))
	}

	if err = protoregistry.GlobalFiles.RegisterFile(file); err != nil {
		panic(fmt.Sprintf("register %s: %v", Path, err))
	}

	File = file
}

// Descriptor returns the descriptor of the named message. It panics on unknown names.
func Descriptor(name protoreflect.Name) protoreflect.MessageDescriptor {
	md := File.Messages().ByName(name)
	if md == nil {
		panic(fmt.Sprintf("%s: unknown message %q", Path, name))
	}

	return md
}

// New returns an empty message of the named type.
func New(name protoreflect.Name) *dynamicpb.Message {
	return dynamicpb.NewMessage(Descriptor(name))
}

func fileProto() *descriptorpb.FileDescriptorProto {
	device := "." + Package + "." + string(Device)
	zoneGroup := "." + Package + "." + string(ZoneGroup)

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(Path),
		Package: proto.String(Package),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/oshokin/speaker-autogroup/internal/pb/v1;pb"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message(Device, scalar("id", 1), scalar("name", 2)),
			message(ZoneGroup, scalar("coordinator", 1), repeated("members", 2, device)),
			message(DiscoverRequest),
			message(DiscoverResponse, repeated("speakers", 1, device)),
			message(FindRequest, scalar("name", 1)),
			message(FindResponse, nested("speaker", 1, device)),
			message(DescribeRequest, scalar("id", 1)),
			message(DescribeResponse, nested("speaker", 1, device)),
			message(ZoneGroupStateRequest, scalar("id", 1)),
			message(ZoneGroupStateResponse, repeated("groups", 1, zoneGroup)),
			message(JoinRequest, scalar("id", 1), scalar("target", 2)),
			message(JoinResponse),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("SpeakerBridge"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("Discover", DiscoverRequest, DiscoverResponse),
				method("Find", FindRequest, FindResponse),
				method("Describe", DescribeRequest, DescribeResponse),
				method("ZoneGroupState", ZoneGroupStateRequest, ZoneGroupStateResponse),
				method("Join", JoinRequest, JoinResponse),
			},
		}},
	}
}

func message(name protoreflect.Name, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(string(name)),
		Field: fields,
	}
}

func scalar(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return field(name, number, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING, "")
}

func nested(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return field(name, number, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName)
}

func repeated(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return field(name, number, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName)
}

func field(
	name string,
	number int32,
	label descriptorpb.FieldDescriptorProto_Label,
	kind descriptorpb.FieldDescriptorProto_Type,
	typeName string,
) *descriptorpb.FieldDescriptorProto {
	fd := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(name),
		Number:   proto.Int32(number),
		Label:    label.Enum(),
		Type:     kind.Enum(),
	}

	if typeName != "" {
		fd.TypeName = proto.String(typeName)
	}

	return fd
}

func method(name string, input, output protoreflect.Name) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + Package + "." + string(input)),
		OutputType: proto.String("." + Package + "." + string(output)),
	}
}
