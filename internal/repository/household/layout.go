package household

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Layout describes the speakers of a household and their initial groups.
type Layout struct {
	// Speakers are listed in discovery order.
	Speakers []SpeakerSpec `yaml:"speakers"`
	// Groups lists the initial multi-speaker groups. Speakers outside any group play alone.
	Groups []GroupSpec `yaml:"groups,omitempty"`
}

// SpeakerSpec is one speaker of the layout.
type SpeakerSpec struct {
	// Name is the display name.
	Name string `yaml:"name"`
	// ID is the unique identifier; generated when empty.
	ID string `yaml:"id,omitempty"`
}

// GroupSpec is one initial group, referencing speakers by name.
type GroupSpec struct {
	// Coordinator is the name of the lead speaker.
	Coordinator string `yaml:"coordinator"`
	// Members lists the other speakers of the group.
	Members []string `yaml:"members"`
}

// ErrInvalidLayout is returned for layouts that cannot describe a household.
var ErrInvalidLayout = errors.New("invalid household layout")

// NewSpeakerID returns a fresh identifier in the RINCON_* style used by speakers.
func NewSpeakerID() string {
	return "RINCON_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// DemoLayout returns three ungrouped speakers.
func DemoLayout() *Layout {
	return &Layout{
		Speakers: []SpeakerSpec{
			{Name: "Kitchen", ID: NewSpeakerID()},
			{Name: "Living Room", ID: NewSpeakerID()},
			{Name: "Bedroom", ID: NewSpeakerID()},
		},
	}
}

// Normalize assigns identifiers to speakers that have none.
func (l *Layout) Normalize() {
	for i := range l.Speakers {
		if l.Speakers[i].ID == "" {
			l.Speakers[i].ID = NewSpeakerID()
		}
	}
}

// Validate checks names, identifiers and group references.
//
//nolint:cyclop // Each check is a flat guard clause.
func (l *Layout) Validate() error {
	names := make(map[string]bool, len(l.Speakers))
	ids := make(map[string]bool, len(l.Speakers))

	for _, s := range l.Speakers {
		if s.Name == "" {
			return fmt.Errorf("%w: speaker without a name", ErrInvalidLayout)
		}

		if names[s.Name] {
			return fmt.Errorf("%w: duplicate speaker name %q", ErrInvalidLayout, s.Name)
		}

		key := strings.ToUpper(s.ID)
		if s.ID != "" && ids[key] {
			return fmt.Errorf("%w: duplicate speaker id %q", ErrInvalidLayout, s.ID)
		}

		names[s.Name] = true
		ids[key] = true
	}

	grouped := make(map[string]bool)

	for _, g := range l.Groups {
		for _, name := range append([]string{g.Coordinator}, g.Members...) {
			if !names[name] {
				return fmt.Errorf("%w: group references unknown speaker %q", ErrInvalidLayout, name)
			}

			if grouped[name] {
				return fmt.Errorf("%w: speaker %q is in more than one group", ErrInvalidLayout, name)
			}

			grouped[name] = true
		}
	}

	return nil
}
