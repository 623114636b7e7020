// Package inspect turns a grid tree into flat, printable records.
//
// The inspect package offers:
//   - Snapshots of every node with its path, power state and readings
//   - Formatting of snapshots as an indented tree or a single line
package inspect

import (
	"github.com/gridtree/gridtree-go/pkg/grid"
)

// NodeInfo describes one node at the time of inspection.
type NodeInfo struct {
	// Path is the slot path from the inspected root.
	Path grid.Path

	// Depth is the nesting level; the root has depth 0.
	Depth int

	// ID is the node identifier.
	ID string

	// Kind is the node variant.
	Kind grid.Kind

	// Label is the strip label (strips only).
	Label string

	// Source describes the node's supplier.
	Source string

	// Powered reports whether the node has power.
	Powered bool

	// Device is the held device name (outlets only).
	Device string

	// Outlets is the number of child slots (strips only).
	Outlets int

	// Voltage, Live, Neutral and Earth are outlet readings.
	Voltage int
	Live    int
	Neutral int
	Earth   int
}

// IsFree reports whether the node is an empty outlet.
func (n NodeInfo) IsFree() bool {
	return n.Kind == grid.KindOutlet && n.Device == ""
}

// Inspector builds NodeInfo snapshots.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect returns a record for root and each descendant, depth-first in
// child order.
func (i *Inspector) Inspect(root grid.Node) []NodeInfo {
	var out []NodeInfo
	_ = grid.Walk(root, func(p grid.Path, n grid.Node) error {
		out = append(out, i.InspectNode(n, p))
		return nil
	})
	return out
}

// InspectNode returns the record for a single node at path p.
func (i *Inspector) InspectNode(n grid.Node, p grid.Path) NodeInfo {
	info := NodeInfo{
		Path:    p,
		Depth:   len(p),
		ID:      n.ID(),
		Kind:    n.Kind(),
		Source:  n.Source().String(),
		Powered: n.HasPower(),
	}

	switch v := n.(type) {
	case *grid.Outlet:
		if d := v.Device(); d != nil {
			info.Device = d.Name()
		}
		info.Voltage = v.Voltage()
		info.Live = v.Live()
		info.Neutral = v.Neutral()
		info.Earth = v.Earth()
	case *grid.Strip:
		info.Label = v.Label()
		info.Outlets = v.Len()
	}
	return info
}

// Summary counts nodes in a snapshot.
type Summary struct {
	Strips    int
	Outlets   int
	Devices   int
	Free      int
	Unpowered int
}

// Summarize counts strips, outlets, devices and free outlets in infos.
func Summarize(infos []NodeInfo) Summary {
	var s Summary
	for _, n := range infos {
		switch n.Kind {
		case grid.KindStrip:
			s.Strips++
		case grid.KindOutlet:
			s.Outlets++
			if n.Device != "" {
				s.Devices++
			} else {
				s.Free++
			}
		}
		if !n.Powered {
			s.Unpowered++
		}
	}
	return s
}
