package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned for malformed or unresolvable slot paths.
var ErrInvalidPath = errors.New("invalid path")

// Path addresses a node by slot indices from the root. The root itself is the
// empty path, written "/".
type Path []int

// ParsePath parses a path of the form "0/2/1". A leading slash is allowed;
// "/" and "" denote the root.
func ParsePath(input string) (Path, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "/")
	if input == "" {
		return Path{}, nil
	}
	if strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, input)
	}

	parts := strings.Split(input, "/")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: bad slot %q", ErrInvalidPath, part)
		}
		p = append(p, idx)
	}
	return p, nil
}

// String returns the slash-separated form of the path.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// Child returns a new path extended by slot i.
func (p Path) Child(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Resolve returns the node at path p below root.
func Resolve(root Node, p Path) (Node, error) {
	if isNil(root) {
		return nil, ErrNilNode
	}
	cur := root
	for depth, idx := range p {
		s, ok := cur.(*Strip)
		if !ok {
			return nil, fmt.Errorf("%w: %s is an outlet at depth %d", ErrInvalidPath, p, depth)
		}
		if idx >= len(s.children) {
			return nil, fmt.Errorf("%w: %s has no slot %d at depth %d", ErrInvalidPath, p, idx, depth)
		}
		cur = s.children[idx]
	}
	return cur, nil
}

// PathOf returns the path of n relative to the topmost strip of its tree,
// following sources upward.
func PathOf(n Node) (Path, error) {
	if isNil(n) {
		return nil, ErrNilNode
	}
	var rev []int
	cur := n
	for cur.Source().kind == SourceNode {
		parent := cur.Source().strip
		idx := parent.indexOf(cur)
		if idx < 0 {
			return nil, opError("path", cur.ID(), ErrNotFound)
		}
		rev = append(rev, idx)
		cur = parent
	}

	p := make(Path, len(rev))
	for i, idx := range rev {
		p[len(rev)-1-i] = idx
	}
	return p, nil
}

// WalkFunc is called for every node visited by Walk.
type WalkFunc func(p Path, n Node) error

// Walk visits n and its descendants depth-first in child order.
func Walk(n Node, fn WalkFunc) error {
	return walk(Path{}, n, fn)
}

func walk(p Path, n Node, fn WalkFunc) error {
	if err := fn(p, n); err != nil {
		return err
	}
	if s, ok := n.(*Strip); ok {
		for i, c := range s.children {
			if err := walk(p.Child(i), c, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
