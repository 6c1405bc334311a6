// Package fieldpath provides the dotted, optionally indexed paths that
// validation diagnostics use to pinpoint an offending value inside a nested
// configuration tree, e.g. `retries.count` or `backoff.steps[2]`.
package fieldpath

import (
	"fmt"
	"reflect"
	"strings"
)

// Segment represents a single component of a path, e.g. `name` or `name[2]`.
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewSegment creates a path segment without an index.
func NewSegment(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// NewSegmentWithIndex creates a path segment that includes an array index.
func NewSegmentWithIndex(name string, index int) Segment {
	return Segment{Name: name, Index: index}
}

// HasIndex returns true if the segment carries an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Path addresses one value inside a configuration tree, from the directive
// body downward. The zero value is the root (empty) path.
type Path struct {
	Segments []Segment
}

// Root returns the empty path.
func Root() Path {
	return Path{}
}

// Child returns a new path extended with an unindexed field segment. The
// receiver is not modified; diagnostics in sibling branches share the prefix.
func (p Path) Child(name string) Path {
	return p.append(NewSegment(name))
}

// Index returns a new path whose final segment carries an array index, e.g.
// turning `steps` into `steps[2]`. It panics on an empty path.
func (p Path) Index(i int) Path {
	if len(p.Segments) == 0 {
		panic("fieldpath: cannot index the root path")
	}
	segs := make([]Segment, len(p.Segments))
	copy(segs, p.Segments)
	segs[len(segs)-1].Index = i
	return Path{Segments: segs}
}

// Key returns a new path extended with a map-key segment, e.g. `redirect.crash`.
func (p Path) Key(key string) Path {
	return p.append(NewSegment(key))
}

func (p Path) append(seg Segment) Path {
	segs := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Segments: append(segs, seg)}
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p.Segments) == 0
}

// String serializes the path into its canonical dotted representation.
func (p Path) String() string {
	var sb strings.Builder
	for i, segment := range p.Segments {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		if segment.Index != -1 {
			sb.WriteString(fmt.Sprintf("[%d]", segment.Index))
		}
	}
	return sb.String()
}

// Equal checks for deep equality between two paths.
func (p Path) Equal(other Path) bool {
	if len(p.Segments) == 0 && len(other.Segments) == 0 {
		return true
	}
	return reflect.DeepEqual(p.Segments, other.Segments)
}
