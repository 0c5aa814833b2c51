package record

import (
	"github.com/roach88/jqgrid/internal/datefmt"
	"github.com/roach88/jqgrid/internal/ir"
)

// Transform is a zero-argument transformation named by a chain segment.
// It reports false when it does not apply to the value.
type Transform func(v any) (any, bool)

// Resolver reads column paths from records.
// A Resolver is safe for concurrent use once configured.
type Resolver struct {
	transforms map[string]Transform
	dateFormat string
}

// NewResolver returns a resolver with the built-in transformations.
func NewResolver() *Resolver {
	r := &Resolver{
		transforms: make(map[string]Transform, len(builtinTransforms)+4),
		dateFormat: datefmt.Default,
	}
	for name, fn := range builtinTransforms {
		r.transforms[name] = fn
	}
	r.transforms["to_s"] = func(v any) (any, bool) {
		return ir.Text(v, r.dateFormat), true
	}
	return r
}

// WithDateFormat sets the pattern "to_s" uses for dates.
func (r *Resolver) WithDateFormat(pattern string) *Resolver {
	if pattern != "" {
		r.dateFormat = pattern
	}
	return r
}

// Register adds or replaces a named transformation.
func (r *Resolver) Register(name string, fn Transform) *Resolver {
	r.transforms[name] = fn
	return r
}

// Resolve reads path from rec.
//
// Mapping records look the whole path up as one key. Field records read
// the head and, unless it is nil or "", apply each chain segment in turn.
func (r *Resolver) Resolve(rec Record, p Path) any {
	if rec == nil {
		return ""
	}

	if rec.Shape() == ShapeMap {
		v, ok := rec.Field(p.String())
		if !ok || v == nil {
			return ""
		}
		return v
	}

	v, ok := rec.Field(p.Head())
	if !ok || isBlank(v) {
		return ""
	}

	for _, seg := range p.Chain() {
		v, ok = r.apply(v, seg)
		if !ok || v == nil {
			return ""
		}
	}
	return v
}

// apply invokes one chain segment on v. Nested records answer the segment
// as a field read; anything else goes through the transform registry.
func (r *Resolver) apply(v any, seg string) (any, bool) {
	if nested, ok := v.(Record); ok {
		return nested.Field(seg)
	}
	fn, ok := r.transforms[seg]
	if !ok {
		return nil, false
	}
	return fn(v)
}

// ToHash projects rec into a mapping keyed by each path string as given.
func (r *Resolver) ToHash(rec Record, paths []string) map[string]any {
	out := make(map[string]any, len(paths))
	for _, p := range paths {
		out[p] = r.Resolve(rec, ParsePath(p))
	}
	return out
}

var defaultResolver = NewResolver()

// Resolve reads path from rec with the built-in transformations.
func Resolve(rec Record, path string) any {
	return defaultResolver.Resolve(rec, ParsePath(path))
}

// ToHash projects rec with the built-in transformations.
// Callers pass unique paths.
func ToHash(rec Record, paths []string) map[string]any {
	return defaultResolver.ToHash(rec, paths)
}

// Identity returns the row id for rec: its "id" field when present and
// non-nil, otherwise its 0-based position in the page.
func Identity(rec Record, position int) string {
	if rec != nil {
		if v, ok := rec.Field("id"); ok && v != nil {
			return ir.Text(v, "")
		}
	}
	return ir.Text(position, "")
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case ir.IRString:
		return val == ""
	case []byte:
		return len(val) == 0
	default:
		return false
	}
}
