package grid

// SourceKind identifies what supplies a node.
type SourceKind uint8

const (
	// SourceDetached means the node has no supplier.
	SourceDetached SourceKind = iota
	// SourceWall means the node is fed directly by the wall.
	SourceWall
	// SourceNode means the node is fed by a parent Strip.
	SourceNode
)

// String returns the source kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceDetached:
		return "DETACHED"
	case SourceWall:
		return "WALL"
	case SourceNode:
		return "NODE"
	default:
		return "UNKNOWN"
	}
}

// Source is a non-owning reference to a node's supplier.
// The zero value is a detached source.
type Source struct {
	kind  SourceKind
	strip *Strip
}

// Wall returns the wall source.
func Wall() Source {
	return Source{kind: SourceWall}
}

// Detached returns the empty source.
func Detached() Source {
	return Source{}
}

// FromStrip returns a source fed by s. A nil strip yields a detached source.
func FromStrip(s *Strip) Source {
	if s == nil {
		return Source{}
	}
	return Source{kind: SourceNode, strip: s}
}

// Kind returns the source kind.
func (s Source) Kind() SourceKind {
	return s.kind
}

// Strip returns the supplying strip, or nil unless Kind is SourceNode.
func (s Source) Strip() *Strip {
	return s.strip
}

// IsWall reports whether the source is the wall.
func (s Source) IsWall() bool {
	return s.kind == SourceWall
}

// HasPower reports whether the source delivers power.
func (s Source) HasPower() bool {
	switch s.kind {
	case SourceWall:
		return true
	case SourceNode:
		return s.strip.HasPower()
	default:
		return false
	}
}

// String returns a short description of the source.
func (s Source) String() string {
	if s.kind == SourceNode {
		return "strip:" + shortID(s.strip.ID())
	}
	return s.kind.String()
}

// reaches reports whether target appears in the supply chain starting at src.
func reaches(src Source, target *Strip) bool {
	for cur := src; cur.kind == SourceNode; cur = cur.strip.source {
		if cur.strip == target {
			return true
		}
	}
	return false
}
