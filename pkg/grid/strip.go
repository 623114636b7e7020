package grid

import (
	"fmt"
	"io"
)

// Strip is a multi-outlet unit. It owns an ordered sequence of children whose
// length is fixed once initialized; each slot holds an Outlet or a nested Strip.
type Strip struct {
	base
	label       string
	children    []Node
	initialized bool

	// ReplaceOnReinit makes SetOutlets replace existing children instead of
	// failing with ErrAlreadyInitialized.
	ReplaceOnReinit bool

	// LenientSwap makes SwapChild ignore an absent child instead of failing
	// with ErrNotFound.
	LenientSwap bool
}

// NewStrip creates a detached strip without outlets.
func NewStrip(label string) *Strip {
	return &Strip{base: newBase(Detached()), label: label}
}

// NewWallStrip creates the grid root: a strip fed by the wall with n outlets.
func NewWallStrip(label string, n int) (*Strip, error) {
	s := NewStrip(label)
	s.source = Wall()
	if err := s.SetOutlets(n); err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns KindStrip.
func (s *Strip) Kind() Kind {
	return KindStrip
}

// Label returns the strip label.
func (s *Strip) Label() string {
	return s.label
}

// SetLabel sets the strip label.
func (s *Strip) SetLabel(label string) {
	s.label = label
}

// Len returns the number of child slots.
func (s *Strip) Len() int {
	return len(s.children)
}

// Initialized reports whether SetOutlets has been called.
func (s *Strip) Initialized() bool {
	return s.initialized
}

// Children returns a copy of the child sequence.
func (s *Strip) Children() []Node {
	out := make([]Node, len(s.children))
	copy(out, s.children)
	return out
}

// Child returns the child in slot i.
func (s *Strip) Child(i int) (Node, error) {
	if i < 0 || i >= len(s.children) {
		return nil, fmt.Errorf("%w: slot %d of %d", ErrNotFound, i, len(s.children))
	}
	return s.children[i], nil
}

// IsRoot reports whether the strip is fed by the wall.
func (s *Strip) IsRoot() bool {
	return s.source.kind == SourceWall
}

// SetOutlets initializes the strip with n fresh outlets fed by the strip.
// A second call fails with ErrAlreadyInitialized unless ReplaceOnReinit is set.
func (s *Strip) SetOutlets(n int) error {
	if n <= 0 {
		return opError("set outlets", s.id, fmt.Errorf("%w: %d", ErrInvalidOutletCount, n))
	}
	if s.initialized && !s.ReplaceOnReinit {
		return opError("set outlets", s.id, ErrAlreadyInitialized)
	}
	s.resetOutlets(n)
	return nil
}

// ResetOutlets replaces all children with n fresh outlets. Plugged devices
// are released and nested strips become detached.
func (s *Strip) ResetOutlets(n int) error {
	if n <= 0 {
		return opError("reset outlets", s.id, fmt.Errorf("%w: %d", ErrInvalidOutletCount, n))
	}
	s.resetOutlets(n)
	return nil
}

func (s *Strip) resetOutlets(n int) {
	for _, c := range s.children {
		switch v := c.(type) {
		case *Outlet:
			_ = v.Unplug()
			v.source = Detached()
		case *Strip:
			v.source = Detached()
		}
	}

	children := make([]Node, n)
	for i := range children {
		children[i] = NewOutlet(FromStrip(s))
	}
	s.children = children
	s.initialized = true
}

// SetSource rebinds the strip's supplier. Binding to a strip inside the
// strip's own subtree fails with ErrCycleDetected and leaves both unchanged.
func (s *Strip) SetSource(src Source) error {
	if src.kind == SourceNode {
		if src.strip == nil {
			return opError("set source", s.id, ErrNilNode)
		}
		if src.strip == s || reaches(src, s) || contains(s, src.strip) {
			return opError("set source", s.id, ErrCycleDetected)
		}
	}
	s.bind(src)
	return nil
}

func (s *Strip) bind(src Source) {
	s.source = src
	if src.HasPower() {
		s.PowerUp()
	}
}

// PowerUp switches the strip and every descendant on, in child order.
func (s *Strip) PowerUp() {
	s.off = false
	for _, c := range s.children {
		c.PowerUp()
	}
}

// PowerOff switches the strip and every descendant off, in child order.
func (s *Strip) PowerOff() {
	s.off = true
	for _, c := range s.children {
		c.PowerOff()
	}
}

// FreeOutlet returns the leftmost empty outlet in depth-first order, or nil.
func (s *Strip) FreeOutlet() *Outlet {
	for _, c := range s.children {
		if o := c.FreeOutlet(); o != nil {
			return o
		}
	}
	return nil
}

// PlugFree plugs item into the first free outlet below the strip.
func (s *Strip) PlugFree(item Pluggable) (*Outlet, error) {
	o := s.FreeOutlet()
	if o == nil {
		return nil, opError("plug", s.id, ErrNoFreeOutlet)
	}
	if err := o.Plug(item); err != nil {
		return nil, err
	}
	return o, nil
}

// SwapChild replaces the first slot holding old with replacement.
// Sources are left to the caller.
func (s *Strip) SwapChild(old, replacement Node) error {
	if isNil(old) || isNil(replacement) {
		return opError("swap child", s.id, ErrNilNode)
	}
	idx := s.indexOf(old)
	if idx < 0 {
		if s.LenientSwap {
			return nil
		}
		return opError("swap child", s.id, fmt.Errorf("%w: %s %s", ErrNotFound, old.Kind(), shortID(old.ID())))
	}
	if replacement == old {
		return nil
	}
	if r, ok := replacement.(*Strip); ok && (r == s || reaches(s.source, r) || contains(r, s)) {
		return opError("swap child", s.id, ErrCycleDetected)
	}
	if s.indexOf(replacement) >= 0 {
		return opError("swap child", s.id, fmt.Errorf("%w: %s already sits in another slot", ErrAlreadyAttached, shortID(replacement.ID())))
	}
	if p := replacement.Source(); p.kind == SourceNode && p.strip != s && p.strip.indexOf(replacement) >= 0 {
		return opError("swap child", s.id, fmt.Errorf("%w: %s belongs to another strip", ErrAlreadyAttached, shortID(replacement.ID())))
	}
	s.children[idx] = replacement
	return nil
}

// Unplug detaches the strip from its parent and puts a fresh outlet in its
// slot. The grid root cannot be detached.
func (s *Strip) Unplug() error {
	switch s.source.kind {
	case SourceWall:
		return opError("unplug", s.id, fmt.Errorf("%w: cannot detach the grid root", ErrStructural))
	case SourceDetached:
		return opError("unplug", s.id, fmt.Errorf("%w: strip is not attached", ErrStructural))
	}

	parent := s.source.strip
	if parent.indexOf(s) < 0 {
		return opError("unplug", s.id, fmt.Errorf("%w: parent does not hold the strip", ErrNotFound))
	}
	if err := parent.SwapChild(s, NewOutlet(FromStrip(parent))); err != nil {
		return err
	}
	s.source = Detached()
	return nil
}

// PrintStatus writes a header line, then every child indented one tab deeper.
func (s *Strip) PrintStatus(w io.Writer, prefix string) error {
	header := "PowerStrip:"
	if s.label != "" {
		header = "PowerStrip " + s.label + ":"
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", prefix, header); err != nil {
		return err
	}
	for _, c := range s.children {
		if err := c.PrintStatus(w, prefix+"\t"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Strip) indexOf(n Node) int {
	for i, c := range s.children {
		if c == n {
			return i
		}
	}
	return -1
}

// contains reports whether target sits anywhere in the subtree owned by root,
// root included.
func contains(root, target *Strip) bool {
	seen := make(map[*Strip]bool)
	stack := []*Strip{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, c := range cur.children {
			if cs, ok := c.(*Strip); ok {
				stack = append(stack, cs)
			}
		}
	}
	return false
}

func (*Strip) pluggable() {}
