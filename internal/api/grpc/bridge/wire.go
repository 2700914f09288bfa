package bridge

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	pb "github.com/oshokin/speaker-autogroup/internal/pb/v1"
)

// wireMessage converts a bridge message to and from its protobuf form.
type wireMessage interface {
	toProto() *dynamicpb.Message
	fromProto(m protoreflect.Message)
}

func (r *DiscoverRequest) toProto() *dynamicpb.Message { return pb.New(pb.DiscoverRequest) }

func (r *DiscoverRequest) fromProto(protoreflect.Message) {}

func (r *DiscoverResponse) toProto() *dynamicpb.Message {
	m := pb.New(pb.DiscoverResponse)
	setDevices(m, "speakers", r.Speakers)

	return m
}

func (r *DiscoverResponse) fromProto(m protoreflect.Message) {
	r.Speakers = getDevices(m, "speakers")
}

func (r *FindRequest) toProto() *dynamicpb.Message {
	m := pb.New(pb.FindRequest)
	setString(m, "name", r.Name)

	return m
}

func (r *FindRequest) fromProto(m protoreflect.Message) {
	r.Name = getString(m, "name")
}

func (r *FindResponse) toProto() *dynamicpb.Message {
	m := pb.New(pb.FindResponse)
	if r.Speaker != nil {
		r.Speaker.fill(m.Mutable(fieldOf(m, "speaker")).Message())
	}

	return m
}

func (r *FindResponse) fromProto(m protoreflect.Message) {
	r.Speaker = nil

	if fd := fieldOf(m, "speaker"); m.Has(fd) {
		d := deviceFrom(m.Get(fd).Message())
		r.Speaker = &d
	}
}

func (r *DescribeRequest) toProto() *dynamicpb.Message {
	m := pb.New(pb.DescribeRequest)
	setString(m, "id", r.ID)

	return m
}

func (r *DescribeRequest) fromProto(m protoreflect.Message) {
	r.ID = getString(m, "id")
}

func (r *DescribeResponse) toProto() *dynamicpb.Message {
	m := pb.New(pb.DescribeResponse)
	r.Speaker.fill(m.Mutable(fieldOf(m, "speaker")).Message())

	return m
}

func (r *DescribeResponse) fromProto(m protoreflect.Message) {
	r.Speaker = deviceFrom(m.Get(fieldOf(m, "speaker")).Message())
}

func (r *ZoneGroupStateRequest) toProto() *dynamicpb.Message {
	m := pb.New(pb.ZoneGroupStateRequest)
	setString(m, "id", r.ID)

	return m
}

func (r *ZoneGroupStateRequest) fromProto(m protoreflect.Message) {
	r.ID = getString(m, "id")
}

func (r *ZoneGroupStateResponse) toProto() *dynamicpb.Message {
	m := pb.New(pb.ZoneGroupStateResponse)
	list := m.Mutable(fieldOf(m, "groups")).List()

	for _, g := range r.Groups {
		el := list.NewElement()
		group := el.Message()
		setString(group, "coordinator", g.Coordinator)
		setDevices(group, "members", g.Members)
		list.Append(el)
	}

	return m
}

func (r *ZoneGroupStateResponse) fromProto(m protoreflect.Message) {
	list := m.Get(fieldOf(m, "groups")).List()
	r.Groups = make([]ZoneGroup, 0, list.Len())

	for i := range list.Len() {
		group := list.Get(i).Message()
		r.Groups = append(r.Groups, ZoneGroup{
			Coordinator: getString(group, "coordinator"),
			Members:     getDevices(group, "members"),
		})
	}
}

func (r *JoinRequest) toProto() *dynamicpb.Message {
	m := pb.New(pb.JoinRequest)
	setString(m, "id", r.ID)
	setString(m, "target", r.Target)

	return m
}

func (r *JoinRequest) fromProto(m protoreflect.Message) {
	r.ID = getString(m, "id")
	r.Target = getString(m, "target")
}

func (r *JoinResponse) toProto() *dynamicpb.Message { return pb.New(pb.JoinResponse) }

func (r *JoinResponse) fromProto(protoreflect.Message) {}

func (d Device) fill(m protoreflect.Message) {
	setString(m, "id", d.ID)
	setString(m, "name", d.Name)
}

func deviceFrom(m protoreflect.Message) Device {
	return Device{ID: getString(m, "id"), Name: getString(m, "name")}
}

func setDevices(m protoreflect.Message, name protoreflect.Name, devices []Device) {
	list := m.Mutable(fieldOf(m, name)).List()

	for _, d := range devices {
		el := list.NewElement()
		d.fill(el.Message())
		list.Append(el)
	}
}

func getDevices(m protoreflect.Message, name protoreflect.Name) []Device {
	list := m.Get(fieldOf(m, name)).List()
	devices := make([]Device, 0, list.Len())

	for i := range list.Len() {
		devices = append(devices, deviceFrom(list.Get(i).Message()))
	}

	return devices
}

func setString(m protoreflect.Message, name protoreflect.Name, value string) {
	m.Set(fieldOf(m, name), protoreflect.ValueOfString(value))
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(fieldOf(m, name)).String()
}

func fieldOf(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(name)
}
