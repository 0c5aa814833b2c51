// Package record resolves column paths against grid records.
//
// A record is either attribute-bearing (ShapeFields) or a plain key/value
// mapping (ShapeMap). The resolver dispatches on the shape tag only:
//
//   - ShapeMap: the whole column path is one key ("b.downcase" is looked up
//     literally).
//   - ShapeFields: the path is split on "."; the first segment is a field
//     read, every later segment a zero-argument transformation applied to
//     the previous result ("a.upcase.downcase").
//
// Resolution never fails. A missing field, a nil or empty leading value,
// an unknown transformation or a nil intermediate all yield "".
package record

// Shape tags the two record variants.
type Shape int

const (
	// ShapeFields records expose named fields and support accessor chains.
	ShapeFields Shape = iota
	// ShapeMap records are looked up by the literal column path.
	ShapeMap
)

// Record is the per-row entity a grid is built from.
//
// Field returns the named value and whether the record knows the name.
// Virtual fields (a computed "va" returning an uppercased "a", say) are
// just names the record answers; the resolver does not distinguish them.
type Record interface {
	Shape() Shape
	Field(name string) (any, bool)
}

// Map is a mapping record.
type Map map[string]any

// Shape implements Record.
func (Map) Shape() Shape { return ShapeMap }

// Field implements Record.
func (m Map) Field(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Object is a field record built from stored values plus computed accessors.
// Virtuals take precedence over Values with the same name.
type Object struct {
	Values   map[string]any
	Virtuals map[string]func(Object) any
}

// Shape implements Record.
func (Object) Shape() Shape { return ShapeFields }

// Field implements Record.
func (o Object) Field(name string) (any, bool) {
	if fn, ok := o.Virtuals[name]; ok {
		return fn(o), true
	}
	v, ok := o.Values[name]
	return v, ok
}
