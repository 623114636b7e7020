package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the node variant.
type Kind uint8

const (
	// KindOutlet is a single receptacle.
	KindOutlet Kind = iota
	// KindStrip is a multi-outlet strip.
	KindStrip
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOutlet:
		return "OUTLET"
	case KindStrip:
		return "STRIP"
	default:
		return "UNKNOWN"
	}
}

// Node is the contract shared by outlets and strips.
type Node interface {
	// ID returns the unique node identifier.
	ID() string

	// Kind returns the node variant.
	Kind() Kind

	// Source returns the node's supplier.
	Source() Source

	// SetSource rebinds the supplier. If the new source delivers power the
	// node's subtree is powered up.
	SetSource(src Source) error

	// HasPower reports whether the node is switched on and its source chain
	// reaches the wall.
	HasPower() bool

	// PowerUp switches the node and all its descendants on.
	PowerUp()

	// PowerOff switches the node and all its descendants off.
	PowerOff()

	// PrintStatus writes a recursive status dump, one line per node.
	PrintStatus(w io.Writer, prefix string) error

	// FreeOutlet returns the first empty outlet in depth-first order, or nil.
	FreeOutlet() *Outlet

	// Unplug removes an outlet's device or detaches a strip from its parent.
	Unplug() error

	node() *base
}

// Occupancy is the Outlet-only capability of holding an item.
type Occupancy interface {
	Node
	Plug(item Pluggable) error
	Device() *Device
}

// ChildManager is the Strip-only capability of owning children.
type ChildManager interface {
	Node
	SetOutlets(n int) error
	SwapChild(old, replacement Node) error
	Children() []Node
}

// Pluggable is an item that can be plugged into an outlet: a *Device or a *Strip.
type Pluggable interface {
	pluggable()
}

// Compile-time interface satisfaction checks.
var (
	_ Occupancy    = (*Outlet)(nil)
	_ ChildManager = (*Strip)(nil)
	_ Pluggable    = (*Device)(nil)
	_ Pluggable    = (*Strip)(nil)
)

// base holds the state common to every node.
type base struct {
	id     string
	source Source

	// off is set by PowerOff and cleared by PowerUp.
	off bool
}

func newBase(src Source) base {
	return base{id: uuid.NewString(), source: src}
}

func (b *base) node() *base {
	return b
}

// ID returns the node identifier.
func (b *base) ID() string {
	return b.id
}

// Source returns the node's supplier.
func (b *base) Source() Source {
	return b.source
}

// HasPower reports whether the node is switched on and supplied.
func (b *base) HasPower() bool {
	return !b.off && b.source.HasPower()
}

// AsOutlet returns n as an Outlet, or ErrInvalidOperation for any other kind.
func AsOutlet(n Node) (*Outlet, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	o, ok := n.(*Outlet)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an outlet", ErrInvalidOperation, n.Kind())
	}
	return o, nil
}

// AsStrip returns n as a Strip, or ErrInvalidOperation for any other kind.
func AsStrip(n Node) (*Strip, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	s, ok := n.(*Strip)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a strip", ErrInvalidOperation, n.Kind())
	}
	return s, nil
}

// Plug plugs item into n, which must be an outlet.
func Plug(n Node, item Pluggable) error {
	o, err := AsOutlet(n)
	if err != nil {
		return opError("plug", idOf(n), err)
	}
	return o.Plug(item)
}

// SetOutlets initializes the outlets of n, which must be a strip.
func SetOutlets(n Node, count int) error {
	s, err := AsStrip(n)
	if err != nil {
		return opError("set outlets", idOf(n), err)
	}
	return s.SetOutlets(count)
}

// SwapChild replaces old with replacement among the children of n, which must be a strip.
func SwapChild(n Node, old, replacement Node) error {
	s, err := AsStrip(n)
	if err != nil {
		return opError("swap child", idOf(n), err)
	}
	return s.SwapChild(old, replacement)
}

// Status returns the status dump of n as a string.
func Status(n Node) string {
	var sb strings.Builder
	_ = n.PrintStatus(&sb, "")
	return sb.String()
}

func idOf(n Node) string {
	if isNil(n) {
		return ""
	}
	return n.ID()
}

// isNil reports whether n is nil or wraps a nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Outlet:
		return v == nil
	case *Strip:
		return v == nil
	}
	return false
}
