package bridge

// Device identifies a speaker on the wire.
type Device struct {
	// ID is the opaque unique identifier of the speaker.
	ID string
	// Name is the display name of the speaker.
	Name string
}

// ZoneGroup is one group of a zone group state.
type ZoneGroup struct {
	// Coordinator is the identifier of the group coordinator.
	Coordinator string
	// Members lists the group members, coordinator included.
	Members []Device
}

// DiscoverRequest asks the bridge for every reachable speaker.
// The call deadline is the discovery budget.
type DiscoverRequest struct{}

// DiscoverResponse lists reachable speakers in discovery order.
type DiscoverResponse struct {
	Speakers []Device
}

// FindRequest resolves a speaker by display name.
type FindRequest struct {
	Name string
}

// FindResponse carries the resolved speaker, or nothing when absent.
type FindResponse struct {
	Speaker *Device
}

// DescribeRequest reads the current state of a speaker.
type DescribeRequest struct {
	ID string
}

// DescribeResponse carries the speaker identity.
type DescribeResponse struct {
	Speaker Device
}

// ZoneGroupStateRequest reads the topology seen by a speaker.
type ZoneGroupStateRequest struct {
	ID string
}

// ZoneGroupStateResponse carries the groups in reported order.
type ZoneGroupStateResponse struct {
	Groups []ZoneGroup
}

// JoinRequest commands speaker ID to join the group of the named speaker.
type JoinRequest struct {
	ID     string
	Target string
}

// JoinResponse is empty.
type JoinResponse struct{}
