package speaker

import "fmt"

// DispositionKind is the outcome class of one speaker in one pass.
type DispositionKind int

const (
	// NoGroupAvailable means the speaker should be collected for a new ad-hoc group.
	NoGroupAvailable DispositionKind = iota
	// AlreadyGrouped means the speaker is a member of a real group; nothing to do.
	AlreadyGrouped
	// JoinCoordinator means the speaker should join an existing group.
	JoinCoordinator
)

// String returns the lower-case name used in logs and tables.
func (k DispositionKind) String() string {
	switch k {
	case NoGroupAvailable:
		return "no group available"
	case AlreadyGrouped:
		return "already grouped"
	case JoinCoordinator:
		return "join coordinator"
	default:
		return fmt.Sprintf("disposition(%d)", int(k))
	}
}

// Disposition is the classification of one speaker for one pass.
type Disposition struct {
	// Kind is the outcome class.
	Kind DispositionKind
	// Coordinator is the name of the speaker to join; set only for JoinCoordinator.
	Coordinator string
}

// String renders the disposition for status lines.
func (d Disposition) String() string {
	if d.Kind == JoinCoordinator {
		return fmt.Sprintf("%s %q", d.Kind, d.Coordinator)
	}

	return d.Kind.String()
}
