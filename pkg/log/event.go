package log

import (
	"time"

	"github.com/gridtree/gridtree-go/pkg/grid"
)

// Event is a single captured grid event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// GridID identifies the tree the event belongs to.
	GridID string `cbor:"2,keyasint"`

	// NodeID is the node the operation targeted.
	NodeID string `cbor:"3,keyasint,omitempty"`

	// NodeKind is the kind of the targeted node.
	NodeKind grid.Kind `cbor:"4,keyasint"`

	// Path is the slot path of the node at the time of the event.
	Path string `cbor:"5,keyasint,omitempty"`

	// Category classifies the event.
	Category Category `cbor:"6,keyasint"`

	// Type-specific payload (one of these will be set).
	Topology *TopologyEvent  `cbor:"10,keyasint,omitempty"`
	Power    *PowerEvent     `cbor:"11,keyasint,omitempty"`
	Error    *ErrorEventData `cbor:"12,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTopology indicates a structural change.
	CategoryTopology Category = 0
	// CategoryPower indicates a power switch.
	CategoryPower Category = 1
	// CategoryError indicates a failed operation.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTopology:
		return "TOPOLOGY"
	case CategoryPower:
		return "POWER"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Action is the kind of structural change.
type Action uint8

const (
	// ActionInit is the creation of a strip's outlets.
	ActionInit Action = 0
	// ActionPlugDevice is a device plugged into an outlet.
	ActionPlugDevice Action = 1
	// ActionUnplugDevice is a device removed from an outlet.
	ActionUnplugDevice Action = 2
	// ActionSplice is a strip plugged in place of an outlet.
	ActionSplice Action = 3
	// ActionDetach is a strip unplugged and replaced by a fresh outlet.
	ActionDetach Action = 4
	// ActionReset is a strip's children replaced by fresh outlets.
	ActionReset Action = 5
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionInit:
		return "INIT"
	case ActionPlugDevice:
		return "PLUG_DEVICE"
	case ActionUnplugDevice:
		return "UNPLUG_DEVICE"
	case ActionSplice:
		return "SPLICE"
	case ActionDetach:
		return "DETACH"
	case ActionReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// TopologyEvent captures a structural change.
type TopologyEvent struct {
	// Action is the kind of change.
	Action Action `cbor:"1,keyasint"`

	// Device is the device name for plug/unplug actions.
	Device string `cbor:"2,keyasint,omitempty"`

	// ChildID is the strip spliced in or detached.
	ChildID string `cbor:"3,keyasint,omitempty"`

	// Outlets is the outlet count for init/reset/splice actions.
	Outlets int `cbor:"4,keyasint,omitempty"`
}

// Switch is the direction of a power switch.
type Switch uint8

const (
	// SwitchUp is a power-up.
	SwitchUp Switch = 0
	// SwitchOff is a power-off.
	SwitchOff Switch = 1
)

// String returns the switch name.
func (s Switch) String() string {
	switch s {
	case SwitchUp:
		return "UP"
	case SwitchOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// PowerEvent captures a power switch on a subtree.
type PowerEvent struct {
	// Switch is the direction.
	Switch Switch `cbor:"1,keyasint"`

	// WasPowered is the node's power state before the switch.
	WasPowered bool `cbor:"2,keyasint"`

	// IsPowered is the node's power state after the switch.
	IsPowered bool `cbor:"3,keyasint"`

	// Changed counts the nodes in the subtree whose power state changed.
	Changed int `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures a failed operation.
type ErrorEventData struct {
	// Op is the operation name (plug, unplug, power-up, ...).
	Op string `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`
}
