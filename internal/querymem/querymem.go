// Package querymem answers queryir queries against in-memory records.
//
// Records are read through a record.Resolver, so filters and sort keys
// may name virtual fields and accessor chains ("a.upcase"). Pattern
// matching follows SQLite LIKE: % and _ wildcards, case-insensitive.
package querymem

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/jqgrid/internal/datefmt"
	"github.com/roach88/jqgrid/internal/queryir"
	"github.com/roach88/jqgrid/internal/record"
)

// DB is a set of named in-memory tables. It is safe for concurrent use.
type DB struct {
	mu       sync.RWMutex
	tables   map[string][]record.Record
	resolver *record.Resolver
	dateFmt  string
}

// New creates an empty DB. Dates render with dateFormat when matched
// against text patterns (datefmt.Default when empty).
func New(dateFormat string) *DB {
	if dateFormat == "" {
		dateFormat = datefmt.Default
	}
	return &DB{
		tables:   make(map[string][]record.Record),
		resolver: record.NewResolver().WithDateFormat(dateFormat),
		dateFmt:  dateFormat,
	}
}

// Add replaces the contents of table.
func (db *DB) Add(table string, recs []record.Record) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables[table] = slices.Clone(recs)
}

// Tables lists table names in sorted order.
func (db *DB) Tables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (db *DB) table(name string) ([]record.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	recs, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("querymem: no table %q", name)
	}
	return recs, nil
}

// Count returns the number of rows q.Filter keeps.
func (db *DB) Count(ctx context.Context, q queryir.Count) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if res := queryir.Validate(q); !res.IsValid {
		return 0, fmt.Errorf("querymem: invalid query: %s", strings.Join(res.Problems, "; "))
	}
	recs, err := db.table(q.From)
	if err != nil {
		return 0, err
	}
	m, err := db.matcher(q.Filter)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range recs {
		if m.match(rec, q.Filter) {
			n++
		}
	}
	return n, nil
}

// Fetch filters, sorts and pages a table. Records are returned whole;
// q.Columns does not project them.
func (db *DB) Fetch(ctx context.Context, q queryir.Select) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res := queryir.Validate(q); !res.IsValid {
		return nil, fmt.Errorf("querymem: invalid query: %s", strings.Join(res.Problems, "; "))
	}
	recs, err := db.table(q.From)
	if err != nil {
		return nil, err
	}
	m, err := db.matcher(q.Filter)
	if err != nil {
		return nil, err
	}

	kept := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		if m.match(rec, q.Filter) {
			kept = append(kept, rec)
		}
	}

	if len(q.OrderBy) > 0 {
		keys := make([]record.Path, len(q.OrderBy))
		for i, o := range q.OrderBy {
			keys[i] = record.ParsePath(o.Field)
		}
		slices.SortStableFunc(kept, func(a, b record.Record) int {
			for i, o := range q.OrderBy {
				c := sortCompare(db.resolver.Resolve(a, keys[i]), db.resolver.Resolve(b, keys[i]), db.dateFmt)
				if o.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	return page(kept, q.Offset, q.Limit), nil
}

func page(recs []record.Record, offset, limit int) []record.Record {
	if offset >= len(recs) {
		return []record.Record{}
	}
	recs = recs[offset:]
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs
}

// matcher evaluates one query's predicates. Regular expressions are
// compiled once per query.
type matcher struct {
	db      *DB
	regexps map[string]*regexp.Regexp
}

func (db *DB) matcher(p queryir.Predicate) (*matcher, error) {
	m := &matcher{db: db, regexps: make(map[string]*regexp.Regexp)}
	if err := m.compile(p); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *matcher) compile(p queryir.Predicate) error {
	switch pred := p.(type) {
	case queryir.And:
		for _, sub := range pred.Predicates {
			if err := m.compile(sub); err != nil {
				return err
			}
		}
	case *queryir.And:
		return m.compile(*pred)
	case queryir.Regexp:
		if _, ok := m.regexps[pred.Value]; ok {
			return nil
		}
		re, err := regexp.Compile(pred.Value)
		if err != nil {
			return fmt.Errorf("querymem: field %q: %w", pred.Field, err)
		}
		m.regexps[pred.Value] = re
	}
	return nil
}

func (m *matcher) value(rec record.Record, field string) any {
	return m.db.resolver.Resolve(rec, record.ParsePath(field))
}

// operand reads field for a comparison. A plain field that is missing or
// nil stays nil, the way a NULL column never satisfies a SQL comparison.
func (m *matcher) operand(rec record.Record, field string) any {
	path := record.ParsePath(field)
	if rec != nil && !path.IsChain() {
		if rec.Shape() == record.ShapeMap {
			v, _ := rec.Field(path.String())
			return v
		}
		v, _ := rec.Field(path.Head())
		return v
	}
	return m.db.resolver.Resolve(rec, path)
}

func (m *matcher) text(rec record.Record, field string) string {
	return textOf(m.value(rec, field), m.db.dateFmt)
}

func (m *matcher) match(rec record.Record, p queryir.Predicate) bool {
	switch pred := p.(type) {
	case nil:
		return true
	case queryir.And:
		for _, sub := range pred.Predicates {
			if !m.match(rec, sub) {
				return false
			}
		}
		return true
	case *queryir.And:
		return m.match(rec, *pred)
	case queryir.Contains:
		return like("%"+pred.Value+"%", m.text(rec, pred.Field))
	case queryir.NotContains:
		return !like("%"+pred.Value+"%", m.text(rec, pred.Field))
	case queryir.Prefix:
		return like(pred.Value+"%", m.text(rec, pred.Field))
	case queryir.Suffix:
		return like("%"+pred.Value, m.text(rec, pred.Field))
	case queryir.Pattern:
		return like(pred.Value, m.text(rec, pred.Field))
	case queryir.Regexp:
		return m.regexps[pred.Value].MatchString(m.text(rec, pred.Field)) != pred.Negate
	case queryir.Compare:
		c, ok := compareTo(m.operand(rec, pred.Field), pred.Value)
		if !ok {
			return false
		}
		return opHolds(pred.Op, c)
	default:
		return false
	}
}

func opHolds(op queryir.Op, c int) bool {
	switch op {
	case queryir.OpEq:
		return c == 0
	case queryir.OpNe:
		return c != 0
	case queryir.OpLt:
		return c < 0
	case queryir.OpLe:
		return c <= 0
	case queryir.OpGt:
		return c > 0
	case queryir.OpGe:
		return c >= 0
	default:
		return false
	}
}
