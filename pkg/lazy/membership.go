package lazy

import "fmt"

// Mode selects which coordinator a field joins.
type Mode int

const (
	// ModeStandalone joins the form-level coordinator.
	ModeStandalone Mode = iota
	// ModeGrouped joins an explicit submit group, typically one carrying a
	// final hook.
	ModeGrouped
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeStandalone:
		return "standalone"
	case ModeGrouped:
		return "grouped"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Membership describes where a field registers. It is resolved once when the
// field is constructed.
type Membership struct {
	Mode  Mode
	Form  *Coordinator
	Group *Coordinator
}

// Standalone places a field directly in the form-level coordinator.
func Standalone(form *Coordinator) Membership {
	return Membership{Mode: ModeStandalone, Form: form}
}

// Grouped places a field in an explicit submit group.
func Grouped(group *Coordinator) Membership {
	return Membership{Mode: ModeGrouped, Group: group}
}

func (m Membership) resolve() (*Coordinator, error) {
	switch m.Mode {
	case ModeStandalone:
		if m.Form == nil {
			return nil, fmt.Errorf("%w: standalone field needs a form coordinator", ErrNoScope)
		}
		return m.Form, nil
	case ModeGrouped:
		if m.Group == nil {
			return nil, fmt.Errorf("%w: grouped field needs a group coordinator", ErrNoScope)
		}
		return m.Group, nil
	default:
		return nil, fmt.Errorf("lazy: unknown membership mode %s", m.Mode)
	}
}
