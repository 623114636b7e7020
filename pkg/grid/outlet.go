package grid

import (
	"fmt"
	"io"
)

// Electrical readings of a powered outlet. The values are illustrative only.
const (
	NominalVoltage = 230
	LivePhase      = 1
	NeutralPhase   = -1
	EarthLevel     = 0
)

// Outlet is a single receptacle. It holds at most one Device and delegates
// power availability to its source.
type Outlet struct {
	base
	device *Device
}

// NewOutlet creates an empty outlet fed by src.
func NewOutlet(src Source) *Outlet {
	return &Outlet{base: newBase(src)}
}

// Kind returns KindOutlet.
func (o *Outlet) Kind() Kind {
	return KindOutlet
}

// Device returns the held device, or nil.
func (o *Outlet) Device() *Device {
	return o.device
}

// SetSource rebinds the outlet's supplier.
func (o *Outlet) SetSource(src Source) error {
	if src.kind == SourceNode && src.strip == nil {
		return opError("set source", o.id, ErrNilNode)
	}
	o.bind(src)
	return nil
}

func (o *Outlet) bind(src Source) {
	o.source = src
	if src.HasPower() {
		o.PowerUp()
	}
}

// PowerUp switches the outlet on.
func (o *Outlet) PowerUp() {
	o.off = false
}

// PowerOff switches the outlet off.
func (o *Outlet) PowerOff() {
	o.off = true
}

// Plug attaches item to the outlet.
//
// A Device is stored in the outlet. A Strip is spliced into the outlet's slot
// in its parent strip; the outlet itself leaves the tree. In both cases the
// outlet must be empty.
func (o *Outlet) Plug(item Pluggable) error {
	switch it := item.(type) {
	case *Device:
		if it == nil {
			return opError("plug", o.id, ErrNilNode)
		}
		if o.device != nil {
			return opError("plug", o.id, fmt.Errorf("%w: holds %s", ErrSlotOccupied, o.device.name))
		}
		if it.outlet != nil {
			return opError("plug", o.id, fmt.Errorf("%w: device %s is plugged elsewhere", ErrAlreadyAttached, it.name))
		}
		o.device = it
		it.outlet = o
		return nil
	case *Strip:
		if it == nil {
			return opError("plug", o.id, ErrNilNode)
		}
		return o.splice(it)
	default:
		return opError("plug", o.id, fmt.Errorf("%w: unsupported item %T", ErrInvalidOperation, item))
	}
}

// splice replaces the outlet with s in the parent strip. All checks run
// before the parent is touched.
func (o *Outlet) splice(s *Strip) error {
	if o.device != nil {
		return opError("plug", o.id, fmt.Errorf("%w: holds %s", ErrSlotOccupied, o.device.name))
	}
	if o.source.kind != SourceNode {
		return opError("plug", o.id, fmt.Errorf("%w: outlet has no parent strip", ErrStructural))
	}
	if s.source.kind != SourceDetached {
		return opError("plug", o.id, fmt.Errorf("%w: strip is fed by %s", ErrAlreadyAttached, s.source))
	}
	parent := o.source.strip
	if parent == s || reaches(parent.source, s) || contains(s, parent) {
		return opError("plug", o.id, ErrCycleDetected)
	}
	if parent.indexOf(o) < 0 {
		return opError("plug", o.id, ErrNotFound)
	}

	if err := parent.SwapChild(o, s); err != nil {
		return err
	}
	s.bind(FromStrip(parent))
	o.source = Detached()
	return nil
}

// Unplug removes the held device, if any. An outlet never detaches itself.
func (o *Outlet) Unplug() error {
	if o.device != nil {
		o.device.outlet = nil
		o.device = nil
	}
	return nil
}

// FreeOutlet returns the outlet itself when empty, else nil.
func (o *Outlet) FreeOutlet() *Outlet {
	if o.device != nil {
		return nil
	}
	return o
}

// PrintStatus writes one of "no power", "holds device <name>" or
// "has power, empty".
func (o *Outlet) PrintStatus(w io.Writer, prefix string) error {
	var line string
	switch {
	case !o.HasPower():
		line = "no power"
	case o.device != nil:
		line = "holds device " + o.device.name
	default:
		line = "has power, empty"
	}
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, line)
	return err
}

// Voltage returns the nominal voltage when powered, else 0.
func (o *Outlet) Voltage() int {
	if o.HasPower() {
		return NominalVoltage
	}
	return 0
}

// Live returns the live phase level when powered, else 0.
func (o *Outlet) Live() int {
	if o.HasPower() {
		return LivePhase
	}
	return 0
}

// Neutral returns the neutral level when powered, else 0.
func (o *Outlet) Neutral() int {
	if o.HasPower() {
		return NeutralPhase
	}
	return 0
}

// Earth always returns the earth level.
func (o *Outlet) Earth() int {
	return EarthLevel
}
