// Package querysql compiles queryir queries to parameterized SQL.
package querysql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/queryir"
)

// Dialect selects placeholder style and operator spelling.
type Dialect int

const (
	// SQLite uses ? placeholders and the REGEXP operator.
	SQLite Dialect = iota
	// Postgres uses $n placeholders, ILIKE and the ~ operator.
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// IdentifierError reports a table or column name that cannot be
// emitted into SQL.
type IdentifierError struct {
	Name string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q", e.Name)
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidIdentifier reports whether name is a plain or dot-qualified
// identifier.
func ValidIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

// Compiler compiles QueryIR to parameterized SQL.
//
// CRITICAL: Page queries always include ORDER BY with KeyColumn as the
// final tiebreaker so paging is deterministic.
// CRITICAL: Filter values are always parameterized, never interpolated.
type Compiler struct {
	Dialect Dialect

	// KeyColumn breaks ties in ORDER BY. Defaults to "id".
	KeyColumn string
}

// NewCompiler creates a Compiler for dialect.
func NewCompiler(d Dialect) *Compiler {
	return &Compiler{Dialect: d, KeyColumn: "id"}
}

// Compile converts a query to SQL.
// Returns (sql, params, error) tuple.
func (c *Compiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	if res := queryir.Validate(q); !res.IsValid {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(res.Problems, "; "))
	}

	st := &state{dialect: c.Dialect}
	var sql string
	var err error
	switch query := q.(type) {
	case queryir.Select:
		sql, err = c.compileSelect(st, query)
	case *queryir.Select:
		sql, err = c.compileSelect(st, *query)
	case queryir.Count:
		sql, err = c.compileCount(st, query)
	case *queryir.Count:
		sql, err = c.compileCount(st, *query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
	if err != nil {
		return "", nil, err
	}
	return sql, st.args, nil
}

// CompilePredicate compiles a filter on its own, as a WHERE fragment.
func (c *Compiler) CompilePredicate(p queryir.Predicate) (string, []any, error) {
	st := &state{dialect: c.Dialect}
	sql, err := st.predicate(p)
	if err != nil {
		return "", nil, err
	}
	return sql, st.args, nil
}

func (c *Compiler) compileSelect(st *state, q queryir.Select) (string, error) {
	from, err := ident(q.From)
	if err != nil {
		return "", err
	}

	columns := "*"
	if len(q.Columns) > 0 {
		names := make([]string, len(q.Columns))
		for i, col := range q.Columns {
			if names[i], err = ident(col); err != nil {
				return "", err
			}
		}
		columns = strings.Join(names, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", columns, from)

	if err := st.where(&sb, q.Filter); err != nil {
		return "", err
	}

	order, err := c.orderBy(q.OrderBy)
	if err != nil {
		return "", err
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order)

	switch {
	case q.Limit > 0:
		sb.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	case q.Offset > 0 && c.Dialect == SQLite:
		// SQLite only accepts OFFSET after a LIMIT.
		sb.WriteString(" LIMIT -1")
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET " + strconv.Itoa(q.Offset))
	}
	return sb.String(), nil
}

func (c *Compiler) compileCount(st *state, q queryir.Count) (string, error) {
	from, err := ident(q.From)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM " + from)
	if err := st.where(&sb, q.Filter); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// orderBy returns the ORDER BY list, always ending with the key column.
func (c *Compiler) orderBy(keys []queryir.Order) (string, error) {
	key := c.KeyColumn
	if key == "" {
		key = "id"
	}
	if _, err := ident(key); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(keys)+1)
	for _, o := range keys {
		name, err := ident(o.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, name+" "+dir)
		if name == key {
			return strings.Join(parts, ", "), nil
		}
	}

	tiebreak := key
	if c.Dialect == SQLite {
		// COLLATE must precede the direction in SQLite.
		tiebreak += " COLLATE BINARY"
	}
	tiebreak += " ASC"
	parts = append(parts, tiebreak)
	return strings.Join(parts, ", "), nil
}

func ident(name string) (string, error) {
	if !ValidIdentifier(name) {
		return "", &IdentifierError{Name: name}
	}
	return name, nil
}

// state accumulates bind arguments for one statement.
type state struct {
	dialect Dialect
	args    []any
}

// bind records v and returns its placeholder.
func (st *state) bind(v any) string {
	st.args = append(st.args, v)
	if st.dialect == Postgres {
		return "$" + strconv.Itoa(len(st.args))
	}
	return "?"
}

func (st *state) where(sb *strings.Builder, p queryir.Predicate) error {
	if p == nil {
		return nil
	}
	sql, err := st.predicate(p)
	if err != nil {
		return fmt.Errorf("compile filter: %w", err)
	}
	sb.WriteString(" WHERE " + sql)
	return nil
}

// predicate compiles p to a WHERE fragment.
// CRITICAL: Values NEVER interpolated - always placeholders.
func (st *state) predicate(p queryir.Predicate) (string, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil
	case queryir.And:
		return st.and(pred)
	case *queryir.And:
		return st.and(*pred)
	case queryir.Contains:
		return st.like(pred.Field, false, "%"+pred.Value+"%")
	case queryir.NotContains:
		return st.like(pred.Field, true, "%"+pred.Value+"%")
	case queryir.Prefix:
		return st.like(pred.Field, false, pred.Value+"%")
	case queryir.Suffix:
		return st.like(pred.Field, false, "%"+pred.Value)
	case queryir.Pattern:
		return st.like(pred.Field, false, pred.Value)
	case queryir.Compare:
		return st.compare(pred)
	case queryir.Regexp:
		return st.regexp(pred)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (st *state) and(and queryir.And) (string, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil // Always true (vacuous truth)
	}
	parts := make([]string, 0, len(and.Predicates))
	for _, pred := range and.Predicates {
		sql, err := st.predicate(pred)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}
	return strings.Join(parts, " AND "), nil
}

// textColumn renders a column for pattern matching. PostgreSQL needs an
// explicit cast for non-text columns; SQLite converts implicitly.
func (st *state) textColumn(field string) (string, error) {
	name, err := ident(field)
	if err != nil {
		return "", err
	}
	if st.dialect == Postgres {
		return "CAST(" + name + " AS TEXT)", nil
	}
	return name, nil
}

func (st *state) like(field string, negate bool, pattern string) (string, error) {
	col, err := st.textColumn(field)
	if err != nil {
		return "", err
	}
	op := "LIKE"
	if st.dialect == Postgres {
		// SQLite LIKE is case-insensitive for ASCII; ILIKE matches that.
		op = "ILIKE"
	}
	if negate {
		op = "NOT " + op
	}
	return col + " " + op + " " + st.bind(pattern), nil
}

func (st *state) compare(cmp queryir.Compare) (string, error) {
	name, err := ident(cmp.Field)
	if err != nil {
		return "", err
	}
	param := ir.Param(cmp.Value)
	if param == nil {
		return "", fmt.Errorf("field %q: comparison value %T has no SQL form", cmp.Field, cmp.Value)
	}
	return name + " " + string(cmp.Op) + " " + st.bind(param), nil
}

func (st *state) regexp(re queryir.Regexp) (string, error) {
	col, err := st.textColumn(re.Field)
	if err != nil {
		return "", err
	}
	var op string
	switch {
	case st.dialect == Postgres && re.Negate:
		op = "!~"
	case st.dialect == Postgres:
		op = "~"
	case re.Negate:
		op = "NOT REGEXP"
	default:
		op = "REGEXP"
	}
	return col + " " + op + " " + st.bind(re.Value), nil
}
