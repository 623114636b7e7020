package inspect

import (
	"fmt"
	"strings"

	"github.com/gridtree/gridtree-go/pkg/grid"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowIDs includes shortened node IDs.
	ShowIDs bool

	// ShowReadings includes outlet voltage and phase levels.
	ShowReadings bool

	// IndentWidth is the number of spaces per indent level.
	IndentWidth int
}

// NewFormatter creates a Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowReadings: true,
		IndentWidth:  2,
	}
}

// Indent returns content indented to depth.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatNode renders a single record on one line, without indentation.
func (f *Formatter) FormatNode(n NodeInfo) string {
	var sb strings.Builder
	sb.WriteString("[" + n.Path.String() + "] ")

	switch n.Kind {
	case grid.KindStrip:
		sb.WriteString("strip")
		if n.Label != "" {
			fmt.Fprintf(&sb, " %q", n.Label)
		}
		fmt.Fprintf(&sb, " (%d outlets)", n.Outlets)
	default:
		sb.WriteString("outlet")
		if n.Device != "" {
			fmt.Fprintf(&sb, " <- %s", n.Device)
		} else {
			sb.WriteString(" (free)")
		}
	}

	if n.Powered {
		sb.WriteString(" ON")
	} else {
		sb.WriteString(" OFF")
	}
	if f.ShowReadings && n.Kind == grid.KindOutlet {
		fmt.Fprintf(&sb, " %dV L=%d N=%d E=%d", n.Voltage, n.Live, n.Neutral, n.Earth)
	}
	if f.ShowIDs {
		id := n.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&sb, " id=%s", id)
	}
	return sb.String()
}

// FormatTree renders records as an indented tree, one line per node.
func (f *Formatter) FormatTree(infos []NodeInfo) string {
	var sb strings.Builder
	for _, n := range infos {
		sb.WriteString(f.Indent(n.Depth, f.FormatNode(n)))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatSummary renders a Summary on one line.
func (f *Formatter) FormatSummary(s Summary) string {
	return fmt.Sprintf("%d strips, %d outlets (%d in use, %d free), %d unpowered",
		s.Strips, s.Outlets, s.Devices, s.Free, s.Unpowered)
}
