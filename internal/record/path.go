package record

import "strings"

// Path is a parsed column path. It is immutable once parsed.
type Path struct {
	raw      string
	segments []string
}

// ParsePath splits a column path on ".".
func ParsePath(s string) Path {
	return Path{raw: s, segments: strings.Split(s, ".")}
}

// ParsePaths parses each column path in order.
func ParsePaths(ss []string) []Path {
	paths := make([]Path, len(ss))
	for i, s := range ss {
		paths[i] = ParsePath(s)
	}
	return paths
}

// String returns the path as given, dots included.
func (p Path) String() string { return p.raw }

// Head returns the first segment, the field read on the record.
func (p Path) Head() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[0]
}

// Chain returns the transformations applied after the head, in order.
func (p Path) Chain() []string {
	if len(p.segments) < 2 {
		return nil
	}
	return p.segments[1:len(p.segments):len(p.segments)]
}

// IsChain reports whether the path has any transformation segments.
func (p Path) IsChain() bool { return len(p.segments) > 1 }
